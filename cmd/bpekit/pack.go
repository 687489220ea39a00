package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bpekit/bpekit/internal/config"
	"github.com/bpekit/bpekit/pkg/model"
	"github.com/bpekit/bpekit/pkg/pack"
	"github.com/bpekit/bpekit/pkg/seqio"
)

func newPackCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pack <input-file> [output-file]",
		Short: "Compress a file with a trained byte tokenizer",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(_ *cobra.Command, args []string) error {
			out := ""
			if len(args) == 2 {
				out = args[1]
			}
			return runPack(activeCfg, args[0], out)
		},
	}
}

func newUnpackCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "unpack <packed-file> [output-file]",
		Short: "Restore a file packed with the same tokenizer model",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(_ *cobra.Command, args []string) error {
			out := ""
			if len(args) == 2 {
				out = args[1]
			}
			return runUnpack(activeCfg, args[0], out)
		},
	}
}

func newPacker(cfg config.Config) (*pack.Packer, error) {
	elements, err := config.NormalizeElements(cfg.Model.Elements)
	if err != nil {
		return nil, err
	}
	if elements != config.ElementsBytes {
		return nil, fmt.Errorf("pack works on byte models; train with --model-elements=bytes")
	}
	tok, err := model.LoadFile[byte](cfg.Model.Path)
	if err != nil {
		return nil, err
	}
	return pack.New(tok), nil
}

func runPack(cfg config.Config, inputPath, outPath string) error {
	p, err := newPacker(cfg)
	if err != nil {
		return err
	}

	data, err := seqio.ReadBytes(inputPath)
	if err != nil {
		return err
	}
	packed, err := p.Pack(data)
	if err != nil {
		return err
	}

	method, _, err := pack.Inspect(packed)
	if err != nil {
		return err
	}
	slog.Info("packed",
		"input", inputPath,
		"method", method.String(),
		"raw_size", len(data),
		"packed_size", len(packed))

	if outPath == "" {
		outPath = inputPath + ".bpk"
	}
	return os.WriteFile(outPath, packed, 0644)
}

func runUnpack(cfg config.Config, inputPath, outPath string) error {
	p, err := newPacker(cfg)
	if err != nil {
		return err
	}

	packed, err := seqio.ReadBytes(inputPath)
	if err != nil {
		return err
	}
	data, err := p.Unpack(packed)
	if err != nil {
		return err
	}

	slog.Info("unpacked", "input", inputPath, "raw_size", len(data))

	if outPath == "" {
		outPath = strings.TrimSuffix(inputPath, ".bpk")
		if outPath == inputPath {
			outPath = inputPath + ".out"
		}
	}
	return os.WriteFile(outPath, data, 0644)
}
