package repository

import (
	"bufio"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/hashicorp/go-multierror"

	"git-refspec/lib/oid"
	"git-refspec/lib/refspec"
)

const HEAD = "HEAD"
const REFS_DIR = "refs"
const PACKED_REFS = "packed-refs"

// symbolic refs are followed at most this deep
const maxSymRefDepth = 5

var symRefRegexp = regexp.MustCompile(`^ref: (.+)$`)

type InvalidRefError struct {
	msg string
}

func (e *InvalidRefError) Error() string {
	return e.msg
}

type Refs struct {
	pathname string
	refsPath string
}

func NewRefs(pathname string) *Refs {
	return &Refs{
		pathname: pathname,
		refsPath: filepath.Join(pathname, REFS_DIR),
	}
}

// ListItems returns HEAD and every ref of the repository, loose and
// packed, sorted by name. A packed ref that also exists loose uses the
// loose value. Unreadable packed-refs lines are reported in the error
// alongside the refs that could be read.
func (r *Refs) ListItems() ([]refspec.Item, error) {
	packed, errs := r.readPackedRefs()

	loose, err := r.listLooseRefs()
	if err != nil {
		return nil, err
	}

	byName := map[string]refspec.Item{}
	for _, item := range packed {
		byName[item.FullRefName] = item
	}
	for _, name := range append([]string{HEAD}, loose...) {
		id, err := r.resolve(name, byName, 0)
		if err != nil {
			errs = multierror.Append(errs, err)
			continue
		}
		if id == nil {
			continue
		}
		item := refspec.Item{FullRefName: name, Target: *id}
		if prev, ok := byName[name]; ok && prev.Target == *id {
			item.Tag = prev.Tag
		}
		byName[name] = item
	}

	items := make([]refspec.Item, 0, len(byName))
	for _, item := range byName {
		items = append(items, item)
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].FullRefName < items[j].FullRefName
	})
	return items, errs.ErrorOrNil()
}

func (r *Refs) resolve(name string, packed map[string]refspec.Item, depth int) (*oid.ObjectId, error) {
	if depth > maxSymRefDepth {
		return nil, &InvalidRefError{msg: fmt.Sprintf("symbolic ref '%s' nests too deep", name)}
	}

	data, err := os.ReadFile(filepath.Join(r.pathname, filepath.FromSlash(name)))
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, err
		}
		if item, ok := packed[name]; ok {
			id := item.Target
			return &id, nil
		}
		return nil, nil
	}

	content := strings.TrimSpace(string(data))
	if match := symRefRegexp.FindStringSubmatch(content); match != nil {
		return r.resolve(match[1], packed, depth+1)
	}

	id, err := oid.FromHex(content)
	if err != nil {
		return nil, &InvalidRefError{msg: fmt.Sprintf("ref '%s' does not hold an object id: %s", name, err)}
	}
	return &id, nil
}

func (r *Refs) listLooseRefs() ([]string, error) {
	var names []string

	err := filepath.WalkDir(r.refsPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || strings.HasSuffix(path, ".lock") {
			return nil
		}
		relPath, err := filepath.Rel(r.pathname, path)
		if err != nil {
			return err
		}
		names = append(names, filepath.ToSlash(relPath))
		return nil
	})

	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, err
	}
	return names, nil
}

// readPackedRefs reads the packed-refs file. A "^<hex>" line is the
// peeled target of the annotated tag on the line before it.
func (r *Refs) readPackedRefs() ([]refspec.Item, *multierror.Error) {
	path := filepath.Join(r.pathname, PACKED_REFS)
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, multierror.Append(nil, err)
	}
	defer file.Close()

	var (
		items []refspec.Item
		errs  *multierror.Error
	)
	scanner := bufio.NewScanner(file)
	for lineNum := 1; scanner.Scan(); lineNum++ {
		text := scanner.Text()
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}

		if peel, ok := strings.CutPrefix(text, "^"); ok {
			id, err := oid.FromHex(peel)
			if err != nil || len(items) == 0 {
				errs = multierror.Append(errs, &LineError{Line: lineNum, Text: text, Shape: "^<hexsha>"})
				continue
			}
			items[len(items)-1].Tag = &id
			continue
		}

		hex, name, ok := strings.Cut(text, " ")
		id, err := oid.FromHex(hex)
		if !ok || err != nil || !strings.HasPrefix(name, REFS_DIR+"/") {
			errs = multierror.Append(errs, &LineError{Line: lineNum, Text: text, Shape: packedShape})
			continue
		}
		items = append(items, refspec.Item{FullRefName: name, Target: id})
	}
	if err := scanner.Err(); err != nil {
		errs = multierror.Append(errs, fmt.Errorf("read %s: %w", path, err))
	}
	return items, errs
}
