// Package seqio loads and stores the sequences the CLI works with:
// raw inputs as byte or rune sequences, and encoded outputs as a plain
// text token-id format (one decimal id per line, # comments allowed).
package seqio

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// ReadBytes loads a file as a byte sequence.
func ReadBytes(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// ReadRunes loads a file as a rune sequence.
func ReadRunes(path string) ([]rune, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return []rune(string(data)), nil
}

// ReadIDs parses a token-id stream: one decimal id per line, blank
// lines and # comments skipped.
func ReadIDs(r io.Reader) ([]int, error) {
	var ids []int
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		id, err := strconv.Atoi(text)
		if err != nil {
			return nil, fmt.Errorf("seqio: line %d: invalid token id %q", line, text)
		}
		ids = append(ids, id)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return ids, nil
}

// WriteIDs writes token ids in the format ReadIDs parses.
func WriteIDs(w io.Writer, ids []int) error {
	bw := bufio.NewWriter(w)
	for _, id := range ids {
		if _, err := fmt.Fprintln(bw, id); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// ReadIDsFile reads a token-id file.
func ReadIDsFile(path string) ([]int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadIDs(f)
}

// WriteIDsFile writes a token-id file.
func WriteIDsFile(path string, ids []int) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteIDs(f, ids); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
