//go:build integration

package ghsrc

import "testing"

const (
	badRepo      = "not-a-real-org/not-a-real-repo-either"
	publicPack   = "arctir/xv6sched-scenarios"
)

func TestFailWithBadToken(t *testing.T) {
	m := NewManager(ManagerConfig{Token: "badtoken"})
	if _, err := m.ListBundles(publicPack); err == nil {
		t.Fatal("fail: expected an error using an invalid token, got none")
	}
}

func TestFailWithInvalidRepo(t *testing.T) {
	m := NewManager()
	if _, err := m.ListBundles(badRepo); err == nil {
		t.Fatal("fail: expected an error using an invalid repo, got none")
	}
}

func TestListBundles(t *testing.T) {
	m := NewManager()
	bundles, err := m.ListBundles(publicPack)
	if err != nil {
		t.Fatalf("fail: error listing bundles: %s", err)
	}
	if len(bundles) < 1 {
		t.Fatalf("fail: expected at least one published bundle, got %d", len(bundles))
	}
}
