package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/accessible-outings/outings/internal/model"
)

var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "List venue categories and their search keywords",
	Run: func(cmd *cobra.Command, args []string) {
		for _, c := range model.Categories() {
			fmt.Printf("%-18s  %s\n", c, strings.Join(c.SearchKeywords(), ", "))
		}
	},
}

func init() {
	rootCmd.AddCommand(categoriesCmd)
}
