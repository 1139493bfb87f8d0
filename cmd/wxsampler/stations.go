package main

import (
	"context"
	"flag"
	"fmt"
	"strings"

	"wxsampler/internal/netatmo"
)

func stationsCmd(args []string) {
	flags := flag.NewFlagSet("stations", flag.ExitOnError)
	authPath := flags.String("auth", netatmo.DefaultCredentialsFile, "Path to the credentials JSON file")
	_ = flags.Parse(args)

	creds, err := resolveCredentials(*authPath)
	if err != nil {
		fatal("credentials", err)
	}
	client, err := netatmo.Connect(context.Background(), baseURL(), creds)
	if err != nil {
		fatal("connect", err)
	}

	stations, err := client.Stations(context.Background())
	if err != nil {
		fatal("stations", err)
	}

	for _, station := range stations {
		fmt.Printf("%s\t%s\t%s\t%s\n",
			station.ID, station.StationName, station.Name, strings.Join(station.DataTypes, ","))
		for _, module := range station.Modules {
			fmt.Printf("  %s\t%s\t%s\n",
				module.ID, module.Name, strings.Join(module.DataTypes, ","))
		}
	}
}
