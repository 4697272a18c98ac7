// Command cssgen loads a trained chain and prints a generated sentence,
// optionally seeded with words given on the command line.
package main

import (
	"fmt"
	"math/rand"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ezclap-tv/shit-chat-says/internal/codec"
)

func main() {
	var modelPath string
	var sampleK int

	root := &cobra.Command{
		Use:   "cssgen [seed words...]",
		Short: "Generate a sentence from a trained chain",
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(modelPath)
			if err != nil {
				return fmt.Errorf("open model: %w", err)
			}
			defer f.Close()

			chain, err := codec.LoadAny(f)
			if err != nil {
				return fmt.Errorf("load model: %w", err)
			}

			seed := args
			if len(seed) > chain.Order() {
				seed = seed[len(seed)-chain.Order():]
			}

			rng := rand.New(rand.NewSource(time.Now().UnixNano()))
			out, err := chain.SampleBest(seed, rng, sampleK)
			if err != nil {
				return fmt.Errorf("generate: %w", err)
			}
			fmt.Println(strings.Join(out, " "))
			return nil
		},
	}
	root.Flags().StringVar(&modelPath, "model", "chain.bin", "path to a trained chain file")
	root.Flags().IntVar(&sampleK, "k", 4, "generate k candidates and keep the longest")

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
