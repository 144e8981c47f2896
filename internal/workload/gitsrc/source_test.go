package gitsrc

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-git/go-git/v5"
)

const (
	testFilePerms  = 0777
	testCommitMsg1 = "add first scenario"
)

func TestHistory(t *testing.T) {
	m := NewManager()

	if _, err := m.History(Pack{}); err == nil {
		t.Fatal("fail: History did not return an error for a pack with no repository reference")
	}

	p, err := createTestPack()
	defer cleanTestData()
	if err != nil {
		t.Fatalf("fail: error setting up test pack: %s", err)
	}

	commits, err := m.History(*p)
	if err != nil {
		t.Fatalf("fail: error retrieving history: %s", err)
	}
	if len(commits) != 1 {
		t.Fatalf("fail: expected %d commits, got %d", 1, len(commits))
	}
	if string(commits[0].Message) != testCommitMsg1 {
		t.Fatalf("fail: expected commit message %q, got %q", testCommitMsg1, commits[0].Message)
	}
}

func createTestPack() (*Pack, error) {
	fp, err := testRepoDir()
	if err != nil {
		return nil, err
	}
	repo, err := git.PlainInit(fp, false)
	if err != nil {
		return nil, err
	}

	if err := os.WriteFile(filepath.Join(fp, "fork_yield_wait.json"), []byte(`{"steps":[]}`), testFilePerms); err != nil {
		return nil, err
	}

	wt, err := repo.Worktree()
	if err != nil {
		return nil, err
	}
	status, err := wt.Status()
	if err != nil {
		return nil, err
	}
	for file := range status {
		if _, err := wt.Add(file); err != nil {
			return nil, err
		}
	}
	if _, err := wt.Commit(testCommitMsg1, &git.CommitOptions{}); err != nil {
		return nil, err
	}

	return &Pack{URL: "fake-url", Repo: repo}, nil
}

func testRepoDir() (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	fp := filepath.Join(cwd, "testdata", "pack1")
	if err := os.MkdirAll(fp, testFilePerms); err != nil {
		return "", fmt.Errorf("creating test pack directory: %w", err)
	}
	return fp, nil
}

func cleanTestData() {
	cwd, err := os.Getwd()
	if err != nil {
		log.Printf("gitsrc: cleanup skipped, could not resolve cwd: %s", err)
		return
	}
	if err := os.RemoveAll(filepath.Join(cwd, "testdata")); err != nil && !os.IsNotExist(err) {
		log.Printf("gitsrc: cleanup failed: %s", err)
	}
}
