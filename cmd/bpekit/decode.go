package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/bpekit/bpekit/internal/config"
	"github.com/bpekit/bpekit/pkg/model"
	"github.com/bpekit/bpekit/pkg/seqio"
)

func newDecodeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "decode <ids-file> [output-file]",
		Short: "Decode a token-id file back to raw elements",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(_ *cobra.Command, args []string) error {
			out := ""
			if len(args) == 2 {
				out = args[1]
			}
			return runDecode(activeCfg, args[0], out)
		},
	}
}

func runDecode(cfg config.Config, idsPath, outPath string) error {
	elements, err := config.NormalizeElements(cfg.Model.Elements)
	if err != nil {
		return err
	}

	ids, err := seqio.ReadIDsFile(idsPath)
	if err != nil {
		return err
	}

	var raw []byte
	switch elements {
	case config.ElementsBytes:
		tok, err := model.LoadFile[byte](cfg.Model.Path)
		if err != nil {
			return err
		}
		raw, err = tok.Decode(ids)
		if err != nil {
			return err
		}
	default:
		tok, err := model.LoadFile[rune](cfg.Model.Path)
		if err != nil {
			return err
		}
		runes, err := tok.Decode(ids)
		if err != nil {
			return err
		}
		raw = []byte(string(runes))
	}

	slog.Info("decoded", "tokens", len(ids), "bytes", len(raw))
	if outPath == "" || outPath == "-" {
		_, err := os.Stdout.Write(raw)
		return err
	}
	return os.WriteFile(outPath, raw, 0644)
}
