package command

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/hashicorp/go-multierror"
	log "github.com/sirupsen/logrus"

	"git-refspec/lib/refspec"
	"git-refspec/lib/repository"
)

type MatchOption struct {
	Push bool
	// Specs replace the remote's configured specs when given.
	Specs    []string
	RefsFile string
	Local    bool
	ShowSpec bool
	// Dump prints the loaded refs in ls-remote form instead of matching.
	Dump   bool
	GitDir string
	Color  bool
}

type Match struct {
	rootPath string
	args     []string
	options  MatchOption
	repo     *repository.Repository
	stdin    io.Reader
	stdout   io.Writer
	stderr   io.Writer
}

func NewMatch(dir string, args []string, options MatchOption, stdin io.Reader, stdout, stderr io.Writer) (*Match, error) {
	rootPath, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}

	repo := repository.NewRepository(rootPath)
	if options.GitDir != "" {
		repo = repository.OpenGitDir(options.GitDir)
	}

	return &Match{
		rootPath: rootPath,
		args:     args,
		options:  options,
		repo:     repo,
		stdin:    stdin,
		stdout:   stdout,
		stderr:   stderr,
	}, nil
}

func (m *Match) operation() refspec.Operation {
	if m.options.Push {
		return refspec.Push
	}
	return refspec.Fetch
}

func (m *Match) Run() int {
	items, err := m.loadItems()
	if err != nil {
		merr, ok := err.(*multierror.Error)
		if !ok {
			fmt.Fprintf(m.stderr, "fatal: %s\n", err)
			return 128
		}
		for _, e := range merr.Errors {
			fmt.Fprintf(m.stderr, "warning: %s\n", e)
		}
	}

	if m.options.Dump {
		if err := repository.WriteAdvertisedRefs(m.stdout, items); err != nil {
			fmt.Fprintf(m.stderr, "fatal: %s\n", err)
			return 128
		}
		return 0
	}

	specs, err := m.loadSpecs()
	if err != nil {
		fmt.Fprintf(m.stderr, "fatal: %s\n", err)
		return 128
	}

	group := refspec.NewMatchGroup(m.operation(), specs)
	log.WithFields(log.Fields{
		"op":    m.operation(),
		"specs": len(group.Specs),
		"items": len(items),
	}).Debug("matching refs")

	outcome := group.MatchRemotes(items)
	for _, mapping := range outcome.Mappings {
		spec := outcome.SpecByMapping(mapping)
		fields := log.Fields{
			"spec": spec.String(),
			"lhs":  mapping.Lhs.String(),
			"rhs":  mapping.Rhs,
		}
		if idx, ok := mapping.Item(); ok {
			fields["target"] = items[idx].Target.String()
		}
		log.WithFields(fields).Debug("mapped")
		m.showMapping(mapping, spec)
	}
	return 0
}

func (m *Match) loadSpecs() ([]refspec.RefSpec, error) {
	if len(m.options.Specs) > 0 {
		return refspec.ParseAll(m.operation(), m.options.Specs)
	}

	name := repository.DEFAULT_REMOTE
	if len(m.args) > 0 {
		name = m.args[0]
	}
	remote, err := m.repo.Remotes().Get(name)
	if err != nil {
		return nil, err
	}
	if m.options.Push {
		return remote.PushSpecs()
	}
	return remote.FetchSpecs()
}

func (m *Match) loadItems() ([]refspec.Item, error) {
	if m.options.Push || m.options.Local {
		return m.repo.Refs.ListItems()
	}

	switch m.options.RefsFile {
	case "":
		return nil, fmt.Errorf("no advertised refs given, use --refs <file> or --local")
	case "-":
		return repository.ReadAdvertisedRefs(m.stdin)
	}

	file, err := os.Open(m.options.RefsFile)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return repository.ReadAdvertisedRefs(file)
}

func (m *Match) paint(attr color.Attribute) *color.Color {
	c := color.New(attr)
	if m.options.Color {
		c.EnableColor()
	} else {
		c.DisableColor()
	}
	return c
}

func (m *Match) showMapping(mapping refspec.Mapping, spec refspec.RefSpec) {
	lhs := m.paint(color.FgYellow)
	if mapping.Lhs.Kind == refspec.SourceObjectId {
		lhs = m.paint(color.FgCyan)
	}
	lhs.Fprint(m.stdout, mapping.Lhs.String())

	if mapping.Rhs != "" {
		fmt.Fprint(m.stdout, " -> ")
		m.paint(color.FgGreen).Fprint(m.stdout, mapping.Rhs)
	}
	if m.options.ShowSpec {
		fmt.Fprintf(m.stdout, "\t(%s)", spec)
	}
	fmt.Fprint(m.stdout, "\n")
}
