package command

import (
	"fmt"
	"io"
	"path/filepath"

	"git-refspec/lib/repository"
)

type RemoteOption struct {
	Verbose bool
	Tracked []string
	GitDir  string
}

type Remote struct {
	rootPath string
	args     []string
	options  RemoteOption
	repo     *repository.Repository
	stdout   io.Writer
	stderr   io.Writer
}

func NewRemote(dir string, args []string, options RemoteOption, stdout, stderr io.Writer) (*Remote, error) {
	rootPath, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}

	repo := repository.NewRepository(rootPath)
	if options.GitDir != "" {
		repo = repository.OpenGitDir(options.GitDir)
	}

	return &Remote{
		rootPath: rootPath,
		args:     args,
		options:  options,
		repo:     repo,
		stdout:   stdout,
		stderr:   stderr,
	}, nil
}

func (r *Remote) Run() int {
	if len(r.args) == 0 {
		if err := r.listRemotes(); err != nil {
			fmt.Fprintf(r.stderr, "fatal: %s\n", err)
			return 128
		}
		return 0
	}

	c := r.args[0]
	r.args = r.args[1:]

	var err error
	switch c {
	case "add":
		err = r.addRemote()
	case "remove", "rm":
		err = r.removeRemote()
	case "show":
		err = r.showRemote()
	default:
		fmt.Fprintf(r.stderr, "error: unknown subcommand: %s\n", c)
		return 129
	}
	if err != nil {
		fmt.Fprintf(r.stderr, "fatal: %s\n", err)
		return 128
	}
	return 0
}

func (r *Remote) needArgs(n int, usage string) error {
	if len(r.args) < n {
		return fmt.Errorf("usage: remote %s", usage)
	}
	return nil
}

func (r *Remote) addRemote() error {
	if err := r.needArgs(2, "add <name> <url>"); err != nil {
		return err
	}
	name, url := r.args[0], r.args[1]
	return r.repo.Remotes().Add(name, url, r.options.Tracked)
}

func (r *Remote) removeRemote() error {
	if err := r.needArgs(1, "remove <name>"); err != nil {
		return err
	}
	return r.repo.Remotes().Remove(r.args[0])
}

func (r *Remote) listRemotes() error {
	names, err := r.repo.Remotes().ListRemotes()
	if err != nil {
		return err
	}
	for _, name := range names {
		if err := r.listRemote(name); err != nil {
			return err
		}
	}
	return nil
}

func (r *Remote) listRemote(name string) error {
	if !r.options.Verbose {
		fmt.Fprintf(r.stdout, "%s\n", name)
		return nil
	}
	remote, err := r.repo.Remotes().Get(name)
	if err != nil {
		return err
	}
	fetch, _ := remote.FetchURL()
	push, _ := remote.PushURL()

	fmt.Fprintf(r.stdout, "%s\t%s (fetch)\n", name, fetch)
	fmt.Fprintf(r.stdout, "%s\t%s (push)\n", name, push)
	return nil
}

// showRemote prints the URLs and refspecs of one remote.
func (r *Remote) showRemote() error {
	if err := r.needArgs(1, "show <name>"); err != nil {
		return err
	}
	remote, err := r.repo.Remotes().Get(r.args[0])
	if err != nil {
		return err
	}
	specs, err := remote.Specs()
	if err != nil {
		return err
	}

	fetch, _ := remote.FetchURL()
	push, _ := remote.PushURL()
	fmt.Fprintf(r.stdout, "* remote %s\n", remote.Name())
	fmt.Fprintf(r.stdout, "  Fetch URL: %s\n", fetch)
	fmt.Fprintf(r.stdout, "  Push  URL: %s\n", push)
	for _, spec := range specs {
		fmt.Fprintf(r.stdout, "  %s refspec: %s\n", spec.Op, spec)
	}
	return nil
}
