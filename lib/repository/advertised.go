package repository

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/hashicorp/go-multierror"

	"git-refspec/lib/oid"
	"git-refspec/lib/refspec"
)

const (
	peeledSuffix    = "^{}"
	advertisedShape = "<hexsha>\t<refname>"
	packedShape     = "<hexsha> <refname>"
)

// LineError describes a single line that could not be read. Other lines
// of the same input are still used.
type LineError struct {
	Line  int
	Text  string
	Shape string
}

func (e *LineError) Error() string {
	return fmt.Sprintf("In line %d: %q did not match '%s'", e.Line, e.Text, e.Shape)
}

// ReadAdvertisedRefs reads a listing in the format printed by
// `git ls-remote`. A "<name>^{}" line records the peeled target of the
// tag listed before it. Malformed lines are collected into the returned
// error while every valid line is still returned in listing order.
func ReadAdvertisedRefs(r io.Reader) ([]refspec.Item, error) {
	var (
		items []refspec.Item
		errs  *multierror.Error
	)
	index := map[string]int{}

	scanner := bufio.NewScanner(r)
	for lineNum := 1; scanner.Scan(); lineNum++ {
		text := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(text) == "" || strings.HasPrefix(text, "#") || strings.HasPrefix(text, "ref: ") {
			continue
		}

		hex, name, ok := strings.Cut(text, "\t")
		if !ok || name == "" {
			errs = multierror.Append(errs, &LineError{Line: lineNum, Text: text, Shape: advertisedShape})
			continue
		}
		id, err := oid.FromHex(hex)
		if err != nil {
			errs = multierror.Append(errs, &LineError{Line: lineNum, Text: text, Shape: advertisedShape})
			continue
		}

		if base, peeled := strings.CutSuffix(name, peeledSuffix); peeled {
			i, seen := index[base]
			if !seen {
				errs = multierror.Append(errs, fmt.Errorf("in line %d: peeled %s has no preceding ref", lineNum, base))
				continue
			}
			items[i].Tag = &id
			continue
		}

		index[name] = len(items)
		items = append(items, refspec.Item{FullRefName: name, Target: id})
	}
	if err := scanner.Err(); err != nil {
		errs = multierror.Append(errs, fmt.Errorf("read advertised refs: %w", err))
	}

	return items, errs.ErrorOrNil()
}

// WriteAdvertisedRefs writes items in the format ReadAdvertisedRefs reads.
func WriteAdvertisedRefs(w io.Writer, items []refspec.Item) error {
	for _, item := range items {
		if _, err := fmt.Fprintf(w, "%s\t%s\n", item.Target, item.FullRefName); err != nil {
			return err
		}
		if item.Tag != nil {
			if _, err := fmt.Fprintf(w, "%s\t%s%s\n", item.Tag, item.FullRefName, peeledSuffix); err != nil {
				return err
			}
		}
	}
	return nil
}
