package repository

import (
	"git-refspec/lib/config"
	"git-refspec/lib/refspec"
)

type Remote struct {
	config *config.Config
	name   string
}

func NewRemote(config *config.Config, name string) *Remote {
	return &Remote{
		config: config,
		name:   name,
	}
}

func (r *Remote) Name() string {
	return r.name
}

func (r *Remote) FetchURL() (string, error) {
	return r.config.GetString([]string{"remote", r.name, "url"})
}

// PushURL falls back to the fetch URL when no pushurl is set.
func (r *Remote) PushURL() (string, error) {
	url, err := r.config.GetString([]string{"remote", r.name, "pushurl"})
	if err != nil || url != "" {
		return url, err
	}
	return r.FetchURL()
}

func (r *Remote) FetchSpecs() ([]refspec.RefSpec, error) {
	return r.specs("fetch", refspec.Fetch)
}

func (r *Remote) PushSpecs() ([]refspec.RefSpec, error) {
	return r.specs("push", refspec.Push)
}

// Specs returns the fetch and push specs in configuration order, fetch
// first.
func (r *Remote) Specs() ([]refspec.RefSpec, error) {
	fetch, err := r.FetchSpecs()
	if err != nil {
		return nil, err
	}
	push, err := r.PushSpecs()
	if err != nil {
		return nil, err
	}
	return append(fetch, push...), nil
}

func (r *Remote) specs(variable string, op refspec.Operation) ([]refspec.RefSpec, error) {
	values, err := r.config.GetAllStrings([]string{"remote", r.name, variable})
	if err != nil {
		return nil, err
	}
	return refspec.ParseAll(op, values)
}
