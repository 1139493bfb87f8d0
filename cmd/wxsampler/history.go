package main

import (
	"flag"
	"fmt"

	"wxsampler/internal/catalog"
)

func historyCmd(args []string) {
	flags := flag.NewFlagSet("history", flag.ExitOnError)
	catalogPath := flags.String("catalog", "", "Path to the sqlite export catalog")
	limit := flags.Int("n", 20, "Number of entries to show")
	_ = flags.Parse(args)

	if *catalogPath == "" {
		fatal("history", fmt.Errorf("catalog path is required"))
	}

	cat, err := catalog.Open(*catalogPath)
	if err != nil {
		fatal("history", err)
	}
	defer cat.Close()

	entries, err := cat.Recent(*limit)
	if err != nil {
		fatal("history", err)
	}

	for _, entry := range entries {
		fmt.Printf("%s\t%s\t%s\t%d rows\t%s\n",
			entry.Day, entry.Device, entry.Metric, entry.RowCount, entry.File)
	}
}
