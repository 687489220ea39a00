package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/bpekit/bpekit/internal/config"
	"github.com/bpekit/bpekit/pkg/model"
	"github.com/bpekit/bpekit/pkg/seqio"
)

func newEncodeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "encode <input-file> [output-file]",
		Short: "Encode an input file to token ids",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(_ *cobra.Command, args []string) error {
			out := ""
			if len(args) == 2 {
				out = args[1]
			}
			return runEncode(activeCfg, args[0], out)
		},
	}
}

func runEncode(cfg config.Config, inputPath, outPath string) error {
	elements, err := config.NormalizeElements(cfg.Model.Elements)
	if err != nil {
		return err
	}

	var ids []int
	switch elements {
	case config.ElementsBytes:
		input, err := seqio.ReadBytes(inputPath)
		if err != nil {
			return err
		}
		ids, err = encodeSeq(cfg.Model.Path, input)
		if err != nil {
			return err
		}
	default:
		input, err := seqio.ReadRunes(inputPath)
		if err != nil {
			return err
		}
		ids, err = encodeSeq(cfg.Model.Path, input)
		if err != nil {
			return err
		}
	}

	slog.Info("encoded", "input", inputPath, "tokens", len(ids))
	return writeIDs(outPath, ids)
}

func encodeSeq[T comparable](modelPath string, input []T) ([]int, error) {
	tok, err := model.LoadFile[T](modelPath)
	if err != nil {
		return nil, err
	}
	return tok.Encode(input)
}

func writeIDs(outPath string, ids []int) error {
	if outPath == "" || outPath == "-" {
		return seqio.WriteIDs(os.Stdout, ids)
	}
	return seqio.WriteIDsFile(outPath, ids)
}
