package command

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const (
	mainOid = "134385f6d781b7e97062102c6a483440bfda2a03"
	wipOid  = "3803cb6dc4ab0a852c6762394397dc44405b5ae4"
	tagOid  = "5d1c1ad0b0b3c0fd1c0f0c9e8c5b1b5b8ac0b0a1"
)

var advertised = mainOid + "\tHEAD\n" +
	mainOid + "\trefs/heads/main\n" +
	wipOid + "\trefs/heads/wip-1\n" +
	tagOid + "\trefs/tags/v1.0\n"

func runMatch(t *testing.T, tmpDir string, args []string, options MatchOption, stdin string) (int, string, string) {
	t.Helper()
	stdout, stderr := new(bytes.Buffer), new(bytes.Buffer)
	cmd, err := NewMatch(tmpDir, args, options, strings.NewReader(stdin), stdout, stderr)
	if err != nil {
		t.Fatal(err)
	}
	status := cmd.Run()
	return status, stdout.String(), stderr.String()
}

func TestMatchFetch(t *testing.T) {
	before := func() string {
		tmpDir, _, _ := setupTestEnvironment(t)
		addRemote(t, tmpDir, "origin", "ssh://example.com/repo")
		return tmpDir
	}

	t.Run("maps advertised refs with the remote's specs", func(t *testing.T) {
		tmpDir := before()
		defer os.RemoveAll(tmpDir)

		status, stdout, _ := runMatch(t, tmpDir, []string{"origin"}, MatchOption{RefsFile: "-"}, advertised)

		if status != 0 {
			t.Errorf("want %d, but got %d", 0, status)
		}
		expected := `refs/heads/main -> refs/remotes/origin/main
refs/heads/wip-1 -> refs/remotes/origin/wip-1
`
		if stdout != expected {
			t.Errorf("want %q, but got %q", expected, stdout)
		}
	})

	t.Run("reads the listing from a file", func(t *testing.T) {
		tmpDir := before()
		defer os.RemoveAll(tmpDir)
		writeFile(t, tmpDir, "advertised", advertised)

		options := MatchOption{RefsFile: filepath.Join(tmpDir, "advertised")}
		_, stdout, _ := runMatch(t, tmpDir, []string{}, options, "")

		if !strings.HasPrefix(stdout, "refs/heads/main -> refs/remotes/origin/main\n") {
			t.Errorf("want the main mapping first, but got %q", stdout)
		}
	})

	t.Run("applies negative specs from the flags", func(t *testing.T) {
		tmpDir := before()
		defer os.RemoveAll(tmpDir)

		options := MatchOption{
			RefsFile: "-",
			Specs: []string{
				"+refs/heads/*:refs/remotes/origin/*",
				"^refs/heads/wip-*",
				"refs/tags/*:refs/tags/*",
			},
			ShowSpec: true,
		}
		_, stdout, _ := runMatch(t, tmpDir, nil, options, advertised)

		expected := "refs/heads/main -> refs/remotes/origin/main\t(+refs/heads/*:refs/remotes/origin/*)\n" +
			"refs/tags/v1.0 -> refs/tags/v1.0\t(refs/tags/*:refs/tags/*)\n"
		if stdout != expected {
			t.Errorf("want %q, but got %q", expected, stdout)
		}
	})

	t.Run("maps object ids without advertised refs", func(t *testing.T) {
		tmpDir := before()
		defer os.RemoveAll(tmpDir)

		options := MatchOption{RefsFile: "-", Specs: []string{tagOid + ":refs/heads/pinned"}}
		_, stdout, _ := runMatch(t, tmpDir, nil, options, "")

		expected := tagOid + " -> refs/heads/pinned\n"
		if stdout != expected {
			t.Errorf("want %q, but got %q", expected, stdout)
		}
	})

	t.Run("prints sources without a destination alone", func(t *testing.T) {
		tmpDir := before()
		defer os.RemoveAll(tmpDir)

		options := MatchOption{RefsFile: "-", Specs: []string{"refs/tags/*"}}
		_, stdout, _ := runMatch(t, tmpDir, nil, options, advertised)

		if stdout != "refs/tags/v1.0\n" {
			t.Errorf("want %q, but got %q", "refs/tags/v1.0\n", stdout)
		}
	})

	t.Run("warns about broken lines and keeps going", func(t *testing.T) {
		tmpDir := before()
		defer os.RemoveAll(tmpDir)

		_, stdout, stderr := runMatch(t, tmpDir, nil, MatchOption{RefsFile: "-"}, "garbage\n"+advertised)

		expected := "warning: In line 1: \"garbage\" did not match '<hexsha>\t<refname>'\n"
		if stderr != expected {
			t.Errorf("want %q, but got %q", expected, stderr)
		}
		if strings.Count(stdout, "\n") != 2 {
			t.Errorf("want two mappings, but got %q", stdout)
		}
	})

	t.Run("fails on an invalid spec", func(t *testing.T) {
		tmpDir := before()
		defer os.RemoveAll(tmpDir)

		options := MatchOption{RefsFile: "-", Specs: []string{"refs/*/*:refs/x/*"}}
		status, _, stderr := runMatch(t, tmpDir, nil, options, advertised)

		if status != 128 {
			t.Errorf("want %d, but got %d", 128, status)
		}
		expected := "fatal: invalid refspec 'refs/*/*:refs/x/*': more than one '*' on a side\n"
		if stderr != expected {
			t.Errorf("want %q, but got %q", expected, stderr)
		}
	})

	t.Run("fails for an unknown remote", func(t *testing.T) {
		tmpDir := before()
		defer os.RemoveAll(tmpDir)

		status, _, stderr := runMatch(t, tmpDir, []string{"upstream"}, MatchOption{RefsFile: "-"}, advertised)

		if status != 128 {
			t.Errorf("want %d, but got %d", 128, status)
		}
		if stderr != "fatal: No such remote: upstream\n" {
			t.Errorf("want %q, but got %q", "fatal: No such remote: upstream\n", stderr)
		}
	})

	t.Run("fails without a listing", func(t *testing.T) {
		tmpDir := before()
		defer os.RemoveAll(tmpDir)

		status, _, _ := runMatch(t, tmpDir, nil, MatchOption{}, "")
		if status != 128 {
			t.Errorf("want %d, but got %d", 128, status)
		}
	})
}

func TestMatchPush(t *testing.T) {
	t.Run("maps local refs with push specs", func(t *testing.T) {
		tmpDir, _, _ := setupTestEnvironment(t)
		defer os.RemoveAll(tmpDir)

		writeRef(t, tmpDir, "refs/heads/main", mainOid)
		writeRef(t, tmpDir, "refs/heads/topic", wipOid)
		writeRef(t, tmpDir, "refs/remotes/origin/main", mainOid)

		options := MatchOption{
			Push:  true,
			Specs: []string{"refs/heads/*:refs/heads/*", "^refs/heads/topic"},
		}
		_, stdout, _ := runMatch(t, tmpDir, nil, options, "")

		expected := "refs/heads/main -> refs/heads/main\n"
		if stdout != expected {
			t.Errorf("want %q, but got %q", expected, stdout)
		}
	})

	t.Run("uses the remote's configured push specs", func(t *testing.T) {
		tmpDir, _, _ := setupTestEnvironment(t)
		defer os.RemoveAll(tmpDir)

		writeRef(t, tmpDir, "refs/heads/main", mainOid)
		writeFile(t, tmpDir, ".git/config", `[remote "origin"]
	url = ssh://example.com/repo
	push = HEAD:refs/heads/review
`)

		_, stdout, _ := runMatch(t, tmpDir, []string{"origin"}, MatchOption{Push: true}, "")

		expected := "HEAD -> refs/heads/review\n"
		if stdout != expected {
			t.Errorf("want %q, but got %q", expected, stdout)
		}
	})
}

func TestMatchDump(t *testing.T) {
	t.Run("prints local refs in ls-remote form", func(t *testing.T) {
		tmpDir, _, _ := setupTestEnvironment(t)
		defer os.RemoveAll(tmpDir)

		writeRef(t, tmpDir, "refs/heads/main", mainOid)
		writeRef(t, tmpDir, "refs/tags/v1.0", tagOid)

		status, stdout, _ := runMatch(t, tmpDir, nil, MatchOption{Local: true, Dump: true}, "")

		if status != 0 {
			t.Errorf("want %d, but got %d", 0, status)
		}
		expected := mainOid + "\tHEAD\n" +
			mainOid + "\trefs/heads/main\n" +
			tagOid + "\trefs/tags/v1.0\n"
		if stdout != expected {
			t.Errorf("want %q, but got %q", expected, stdout)
		}
	})

	t.Run("dumped refs can be matched again", func(t *testing.T) {
		tmpDir, _, _ := setupTestEnvironment(t)
		defer os.RemoveAll(tmpDir)
		addRemote(t, tmpDir, "origin", "ssh://example.com/repo")

		writeRef(t, tmpDir, "refs/heads/main", mainOid)
		_, dump, _ := runMatch(t, tmpDir, nil, MatchOption{Local: true, Dump: true}, "")

		_, stdout, _ := runMatch(t, tmpDir, []string{"origin"}, MatchOption{RefsFile: "-"}, dump)

		expected := "refs/heads/main -> refs/remotes/origin/main\n"
		if stdout != expected {
			t.Errorf("want %q, but got %q", expected, stdout)
		}
	})
}
