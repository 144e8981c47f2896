package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/arctir/xv6sched/internal/workload/ghsrc"
	"github.com/arctir/xv6sched/internal/workload/gitsrc"
)

var workloadCmd = &cobra.Command{
	Use:   "workload",
	Short: "Resolve, inspect, and fetch scenario packs from their source repositories.",
}

var historyCmd = &cobra.Command{
	Use:   "history <repo-url>",
	Short: "List every commit touching a scenario pack repository, newest first.",
	Run:   runHistory,
}

var revisionsCmd = &cobra.Command{
	Use:   "revisions <repo-url>",
	Short: "List every tagged revision of a scenario pack repository.",
	Run:   runRevisions,
}

var fetchCmd = &cobra.Command{
	Use:   "fetch <owner/repo>",
	Short: "Download a published scenario-pack bundle from a GitHub release asset.",
	Run:   runFetch,
}

func runHistory(cmd *cobra.Command, args []string) {
	if len(args) == 0 {
		cmd.Help()
		return
	}
	mgr := gitsrc.NewManager()
	pack, err := gitsrc.Resolve(args[0])
	if err != nil {
		outputErrorAndFail(fmt.Sprintf("failed resolving scenario pack %q: %s", args[0], err))
	}
	commits, err := mgr.History(*pack)
	if err != nil {
		outputErrorAndFail(fmt.Sprintf("failed reading history for %q: %s", args[0], err))
	}
	for _, c := range commits {
		fmt.Printf("%s  %s <%s>  %s\n", c.Hash.String()[:12], c.Author.Name, c.Author.Email, firstLine(c.Message))
	}
}

func runRevisions(cmd *cobra.Command, args []string) {
	if len(args) == 0 {
		cmd.Help()
		return
	}
	mgr := gitsrc.NewManager()
	pack, err := gitsrc.Resolve(args[0])
	if err != nil {
		outputErrorAndFail(fmt.Sprintf("failed resolving scenario pack %q: %s", args[0], err))
	}
	revisions, err := mgr.Revisions(*pack)
	if err != nil {
		outputErrorAndFail(fmt.Sprintf("failed reading revisions for %q: %s", args[0], err))
	}
	for _, r := range revisions {
		fmt.Printf("%-16s %s  %s\n", r.Tag, r.Date.Format("2006-01-02"), r.LastCommit.String()[:12])
	}
}

func runFetch(cmd *cobra.Command, args []string) {
	if len(args) == 0 {
		cmd.Help()
		return
	}
	repo := args[0]
	tag, _ := cmd.Flags().GetString(tagFlag)
	assetName, _ := cmd.Flags().GetString(assetFlag)
	token, _ := cmd.Flags().GetString(tokenFlag)

	mgr := ghsrc.NewManager(ghsrc.ManagerConfig{Token: token})
	bundles, err := mgr.ListBundles(repo)
	if err != nil {
		outputErrorAndFail(fmt.Sprintf("failed listing releases for %q: %s", repo, err))
	}
	if len(bundles) == 0 {
		outputErrorAndFail(fmt.Sprintf("%q has no published releases", repo))
	}

	bundle := bundles[0]
	if tag != "" {
		found := false
		for _, b := range bundles {
			if b.Tag == tag {
				bundle = b
				found = true
				break
			}
		}
		if !found {
			outputErrorAndFail(fmt.Sprintf("no release tagged %q in %q", tag, repo))
		}
	}

	if len(bundle.Assets) == 0 {
		outputErrorAndFail(fmt.Sprintf("release %q of %q has no downloadable assets", bundle.Tag, repo))
	}
	asset := bundle.Assets[0]
	if assetName != "" {
		found := false
		for _, a := range bundle.Assets {
			if a.Name == assetName {
				asset = a
				found = true
				break
			}
		}
		if !found {
			outputErrorAndFail(fmt.Sprintf("no asset named %q on release %q", assetName, bundle.Tag))
		}
	} else if len(bundle.Assets) > 1 {
		outputErrorAndFail(fmt.Sprintf("release %q of %q has %d assets; pass --asset to disambiguate", bundle.Tag, repo, len(bundle.Assets)))
	}

	data, err := mgr.FetchAsset(repo, asset.ID)
	if err != nil {
		outputErrorAndFail(fmt.Sprintf("failed fetching asset %q: %s", asset.Name, err))
	}
	if err := os.WriteFile(asset.Name, data, 0644); err != nil {
		outputErrorAndFail(fmt.Sprintf("failed writing %q: %s", asset.Name, err))
	}
	fmt.Printf("fetched %s (release %s) -> %s\n", asset.Name, bundle.Tag, asset.Name)
}

func firstLine(b []byte) string {
	for i, c := range b {
		if c == '\n' {
			return string(b[:i])
		}
	}
	return string(b)
}
