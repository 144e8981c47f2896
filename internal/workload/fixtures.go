package workload

import "embed"

//go:embed fixtures/*.json
var fixturesFS embed.FS

// BuiltinFixtures lists the names of the scenario fixtures shipped with
// this module, one per end-to-end scenario.
var BuiltinFixtures = []string{
	"fork_yield_wait",
	"cpu_share_split",
	"ticket_cap_reject",
	"four_threads_join",
	"exit_with_runnable_threads",
	"kill_sleeping",
}

// LoadFixture parses the named built-in scenario fixture.
func LoadFixture(name string) (*Scenario, error) {
	data, err := fixturesFS.ReadFile("fixtures/" + name + ".json")
	if err != nil {
		return nil, err
	}
	return Parse(data)
}
