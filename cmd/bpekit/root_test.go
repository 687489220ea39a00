package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func TestNewRootCmdHasExpectedSubcommands(t *testing.T) {
	root := NewRootCmd()

	want := []string{"train", "encode", "decode", "inspect", "pack", "unpack"}
	for _, name := range want {
		found := false
		for _, sub := range root.Commands() {
			if sub.Name() == name {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("expected subcommand %q not found in root", name)
		}
	}
}

func TestNewRootCmdHasPersistentConfigFlag(t *testing.T) {
	root := NewRootCmd()
	if root.PersistentFlags().Lookup("config") == nil {
		t.Error("expected --config persistent flag to be registered")
	}
}

func TestSetupLoggerDoesNotPanic(_ *testing.T) {
	for _, level := range []string{"debug", "info", "warn", "error", "not-a-level"} {
		setupLogger(level)
	}
}

// run executes the root command with the given arguments.
func run(t *testing.T, args ...string) error {
	t.Helper()
	root := NewRootCmd()
	root.SetArgs(args)
	return root.Execute()
}

func TestTrainEncodeDecodeRoundtrip(t *testing.T) {
	tmpDir := t.TempDir()
	inputPath := filepath.Join(tmpDir, "input.txt")
	modelPath := filepath.Join(tmpDir, "model.json")
	idsPath := filepath.Join(tmpDir, "ids.txt")
	outPath := filepath.Join(tmpDir, "restored.txt")

	inputData := []byte("the quick brown fox jumps over the lazy dog, the quick brown fox again")
	if err := os.WriteFile(inputPath, inputData, 0644); err != nil {
		t.Fatalf("write input: %v", err)
	}

	if err := run(t, "train", inputPath, "--model-path", modelPath, "--train-merges", "10"); err != nil {
		t.Fatalf("train: %v", err)
	}
	if _, err := os.Stat(modelPath); err != nil {
		t.Fatalf("model file missing: %v", err)
	}

	if err := run(t, "encode", inputPath, idsPath, "--model-path", modelPath); err != nil {
		t.Fatalf("encode: %v", err)
	}
	if err := run(t, "decode", idsPath, outPath, "--model-path", modelPath); err != nil {
		t.Fatalf("decode: %v", err)
	}

	restored, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("read restored: %v", err)
	}
	if !bytes.Equal(restored, inputData) {
		t.Errorf("roundtrip mismatch:\n  got  %q\n  want %q", restored, inputData)
	}
}

func TestPackUnpackRoundtrip(t *testing.T) {
	tmpDir := t.TempDir()
	inputPath := filepath.Join(tmpDir, "input.bin")
	modelPath := filepath.Join(tmpDir, "model.json")
	packedPath := filepath.Join(tmpDir, "input.bpk")
	outPath := filepath.Join(tmpDir, "restored.bin")

	inputData := bytes.Repeat([]byte("abcabcabc "), 40)
	if err := os.WriteFile(inputPath, inputData, 0644); err != nil {
		t.Fatalf("write input: %v", err)
	}

	args := []string{"--model-path", modelPath, "--model-elements", "bytes"}

	if err := run(t, append([]string{"train", inputPath, "--train-merges", "20"}, args...)...); err != nil {
		t.Fatalf("train: %v", err)
	}
	if err := run(t, append([]string{"pack", inputPath, packedPath}, args...)...); err != nil {
		t.Fatalf("pack: %v", err)
	}
	if err := run(t, append([]string{"unpack", packedPath, outPath}, args...)...); err != nil {
		t.Fatalf("unpack: %v", err)
	}

	restored, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("read restored: %v", err)
	}
	if !bytes.Equal(restored, inputData) {
		t.Error("pack roundtrip mismatch")
	}
}

func TestPackRejectsRuneModel(t *testing.T) {
	tmpDir := t.TempDir()
	inputPath := filepath.Join(tmpDir, "input.txt")
	modelPath := filepath.Join(tmpDir, "model.json")

	if err := os.WriteFile(inputPath, []byte("aabbaabb"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := run(t, "train", inputPath, "--model-path", modelPath); err != nil {
		t.Fatalf("train: %v", err)
	}

	err := run(t, "pack", inputPath, "--model-path", modelPath, "--model-elements", "runes")
	if err == nil {
		t.Error("pack with a rune model should fail")
	}
}
