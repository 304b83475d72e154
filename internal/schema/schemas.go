package schema

import _ "embed"

// GitHubWorkflowSchema is an advisory, deliberately partial mirror of
// GitHub's published workflow JSON Schema (see schemas/github-workflow.schema.json),
// embedded so ValidateAgainstGitHubSchema has a schema to compile against
// without a network fetch at audit time.
//
//go:embed schemas/github-workflow.schema.json
var GitHubWorkflowSchema []byte
