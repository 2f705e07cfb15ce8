package repository

import (
	"fmt"

	"git-refspec/lib/config"
	"git-refspec/lib/refspec"
)

const DEFAULT_REMOTE = "origin"

type InvalidRemoteError struct {
	msg string
}

func (e *InvalidRemoteError) Error() string {
	return e.msg
}

type Remotes struct {
	config *config.Config
}

func NewRemotes(config *config.Config) *Remotes {
	return &Remotes{
		config: config,
	}
}

// Add stores a remote with one forced fetch spec per tracked branch, or
// a catch-all spec when no branches are given.
func (r *Remotes) Add(name, url string, branches []string) error {
	if len(branches) == 0 {
		branches = []string{"*"}
	}
	if err := r.config.OpenForUpdate(); err != nil {
		return err
	}

	if r.config.HasSection([]string{"remote", name}) {
		r.config.Release()
		return &InvalidRemoteError{fmt.Sprintf("remote %s already exists.", name)}
	}

	if err := r.config.Set([]string{"remote", name, "url"}, url); err != nil {
		r.config.Release()
		return err
	}
	for _, branch := range branches {
		spec := refspec.DefaultFetchSpec(name, branch)
		if err := r.config.Add([]string{"remote", name, "fetch"}, spec.String()); err != nil {
			r.config.Release()
			return err
		}
	}
	return r.config.Save()
}

func (r *Remotes) Remove(name string) error {
	if err := r.config.OpenForUpdate(); err != nil {
		return err
	}

	if !r.config.RemoveSection([]string{"remote", name}) {
		r.config.Release()
		return &InvalidRemoteError{fmt.Sprintf("No such remote: %s", name)}
	}
	return r.config.Save()
}

func (r *Remotes) ListRemotes() ([]string, error) {
	if err := r.config.Open(); err != nil {
		return nil, err
	}
	return r.config.Subsections("remote"), nil
}

func (r *Remotes) Get(name string) (*Remote, error) {
	if err := r.config.Open(); err != nil {
		return nil, err
	}
	if !r.config.HasSection([]string{"remote", name}) {
		return nil, &InvalidRemoteError{fmt.Sprintf("No such remote: %s", name)}
	}
	return NewRemote(r.config, name), nil
}
