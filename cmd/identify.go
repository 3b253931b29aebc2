package cmd

import (
	"errors"
	"fmt"

	"github.com/AnyUserName/rimg-cli/internal/probe"
	"github.com/spf13/cobra"
)

var identifyCmd = &cobra.Command{
	Use:   "identify <file>...",
	Short: "Show format, dimensions and whether a file can be converted",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runIdentify,
}

func init() {
	rootCmd.AddCommand(identifyCmd)
}

func runIdentify(_ *cobra.Command, args []string) error {
	var errs []error
	for i, path := range args {
		if i > 0 {
			fmt.Println()
		}
		info, err := probe.File(path)
		if err != nil {
			fmt.Printf("File:        %s\n", path)
			fmt.Printf("Error:       %v\n", err)
			errs = append(errs, err)
			continue
		}
		printInfo(info)
	}
	return errors.Join(errs...)
}

func printInfo(info *probe.Info) {
	fmt.Printf("File:        %s\n", info.Path)
	fmt.Printf("Format:      %s\n", info.Format)
	fmt.Printf("Dimensions:  %d x %d\n", info.Width, info.Height)
	if info.Layout != "" {
		fmt.Printf("Layout:      %s, %d-bit\n", info.Layout, info.BitDepth)
	}
	fmt.Printf("File size:   %s\n", formatBytes(info.Size))
	if info.Convertible {
		fmt.Println("Convertible: yes")
	} else {
		fmt.Printf("Convertible: no (%s)\n", info.Reason)
	}
}
