package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bpekit/bpekit/internal/config"
	"github.com/bpekit/bpekit/pkg/bpe"
	"github.com/bpekit/bpekit/pkg/model"
)

func newInspectCmd() *cobra.Command {
	var showRules bool

	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Print statistics about a tokenizer model",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return runInspect(activeCfg, showRules)
		},
	}
	cmd.Flags().BoolVar(&showRules, "rules", false, "List every merge rule with its expansion")

	return cmd
}

func runInspect(cfg config.Config, showRules bool) error {
	elements, err := config.NormalizeElements(cfg.Model.Elements)
	if err != nil {
		return err
	}

	switch elements {
	case config.ElementsBytes:
		tok, err := model.LoadFile[byte](cfg.Model.Path)
		if err != nil {
			return err
		}
		printStats(cfg.Model.Path, tok)
		if showRules {
			printRules(tok, func(seq []byte) string { return fmt.Sprintf("%q", seq) })
		}
	default:
		tok, err := model.LoadFile[rune](cfg.Model.Path)
		if err != nil {
			return err
		}
		printStats(cfg.Model.Path, tok)
		if showRules {
			printRules(tok, func(seq []rune) string { return fmt.Sprintf("%q", string(seq)) })
		}
	}
	return nil
}

func printStats[T comparable](path string, tok *bpe.Tokenizer[T]) {
	fmt.Printf("%s: %d tokens (%d leaves, %d merges)\n",
		path, tok.VocabSize(), tok.Tree().AlphabetSize(), tok.NumMerges())
}

func printRules[T comparable](tok *bpe.Tokenizer[T], format func([]T) string) {
	for rank, r := range tok.Rules() {
		expanded, err := tok.Decode([]int{r.New})
		if err != nil {
			// Rules always point into the tree once a model loads.
			continue
		}
		fmt.Printf("  %4d: (%d, %d) -> %d  %s\n", rank, r.Left, r.Right, r.New, format(expanded))
	}
}
