package main

import (
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/bpekit/bpekit/internal/config"
	"github.com/bpekit/bpekit/pkg/bpe"
	"github.com/bpekit/bpekit/pkg/model"
	"github.com/bpekit/bpekit/pkg/seqio"
)

func newTrainCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "train <input-file>",
		Short: "Train a tokenizer model on an input file",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return runTrain(activeCfg, args[0])
		},
	}
}

func runTrain(cfg config.Config, inputPath string) error {
	elements, err := config.NormalizeElements(cfg.Model.Elements)
	if err != nil {
		return err
	}

	switch elements {
	case config.ElementsBytes:
		input, err := seqio.ReadBytes(inputPath)
		if err != nil {
			return err
		}
		var alphabet []byte
		if cfg.Train.AlphabetFile != "" {
			if alphabet, err = seqio.ReadBytes(cfg.Train.AlphabetFile); err != nil {
				return err
			}
		}
		return trainAndSave(cfg, input, alphabet)
	default:
		input, err := seqio.ReadRunes(inputPath)
		if err != nil {
			return err
		}
		var alphabet []rune
		if cfg.Train.AlphabetFile != "" {
			if alphabet, err = seqio.ReadRunes(cfg.Train.AlphabetFile); err != nil {
				return err
			}
		}
		return trainAndSave(cfg, input, alphabet)
	}
}

func trainAndSave[T comparable](cfg config.Config, input, alphabet []T) error {
	start := time.Now()
	tok := bpe.TrainWithAlphabet(input, alphabet, cfg.Train.Merges)

	if err := model.SaveFile(cfg.Model.Path, tok); err != nil {
		return err
	}

	ids, err := tok.Encode(input)
	if err != nil {
		return err
	}

	slog.Info("model trained",
		"path", cfg.Model.Path,
		"alphabet", tok.Tree().AlphabetSize(),
		"merges", tok.NumMerges(),
		"input_len", len(input),
		"encoded_len", len(ids),
		"elapsed", time.Since(start))
	return nil
}
