package repository

import (
	"path/filepath"

	"git-refspec/lib/config"
)

type Repository struct {
	GitPath string
	Config  *config.Config
	Refs    *Refs
}

// NewRepository opens the repository whose .git directory lives under
// rootPath.
func NewRepository(rootPath string) *Repository {
	return OpenGitDir(filepath.Join(rootPath, ".git"))
}

func OpenGitDir(gitPath string) *Repository {
	return &Repository{
		GitPath: gitPath,
		Config:  config.NewConfig(filepath.Join(gitPath, "config")),
		Refs:    NewRefs(gitPath),
	}
}

func (r *Repository) Remotes() *Remotes {
	return NewRemotes(r.Config)
}
