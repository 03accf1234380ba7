package apitests

import (
	"github.com/EduardoSa-Tester/satellite-api-tests/config"
	"github.com/EduardoSa-Tester/satellite-api-tests/framework"
	"github.com/EduardoSa-Tester/satellite-api-tests/rules"
	"github.com/EduardoSa-Tester/satellite-api-tests/scenario"
)

// Top-level test groups.
const (
	GroupCatalog      = "catalog"
	GroupSpaceObjects = "space objects"
	GroupErrorStatus  = "error status"
)

// RunTestSuite runs every test group against the services named in cfg. Requests go through
// harness, whose interceptor is used for the mocked scenarios.
func RunTestSuite(
	harness *framework.TestHarness,
	cfg *config.Config,
	filter framework.Filter,
	testLogger framework.TestLogger,
) framework.Results {
	env := &environment{
		harness:   harness,
		runner:    scenario.NewRunner(harness),
		config:    cfg,
		validator: rules.NewPayloadValidator(cfg.SpaceObjects.AllowedObjectTypes),
	}
	return framework.Run(filter, testLogger, func(c *framework.Context) {
		t := &T{context: c, env: env}

		t.Run(GroupCatalog, DoCatalogTests)
		t.Run(GroupSpaceObjects, DoSpaceObjectTests)
		t.Run(GroupErrorStatus, DoErrorStatusTests)
	})
}
