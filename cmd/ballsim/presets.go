package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/ballsim/internal/config"
	"github.com/san-kum/ballsim/internal/experiment"
)

func listPresets(cmd *cobra.Command, args []string) error {
	registry := experiment.NewRegistry()
	variants := registry.List()
	if len(args) > 0 {
		v, err := registry.Get(variantArg(args))
		if err != nil {
			return err
		}
		variants = []experiment.Variant{v}
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "VARIANT\tDIMS\tPRESETS\tDESCRIPTION")
	for _, v := range variants {
		presets := strings.Join(config.ListPresets(v.Name), ", ")
		if presets == "" {
			presets = "-"
		}
		fmt.Fprintf(w, "%s\t%dD\t%s\t%s\n", v.Name, v.Dims, presets, v.Description)
	}
	return w.Flush()
}

func printConfig(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, variantArg(args))
	if err != nil {
		return err
	}
	if output != "" {
		if err := config.Save(output, cfg); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", output)
		return nil
	}
	enc := yaml.NewEncoder(os.Stdout)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return err
	}
	return enc.Close()
}
