// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"cmp"
	"maps"
	"strings"

	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/slices"
)

// Id identifies a catalog entry.
type Id int

const (
	DeployToolNotFoundId Id = iota + 1
	CredentialsNotFoundId
	InvalidCredentialsId
	ChannelRequiredId
	DeployFailedId
	MalformedOutputId
	ConfigLoadFailedId
	BranchUnavailableId
)

type MarkdownMsg string

type HttpLink string

type Issue struct {
	id       Id          // ID used to lookup the issue
	mdMsg    MarkdownMsg // Markdown text that will be rendered
	docLinks []HttpLink  // documentation for the failing area
	extLinks []HttpLink  // external links that might be useful for the user
}

func (i *Issue) Id() Id {
	return i.id
}

func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

func (i *Issue) DocLinks() []HttpLink {
	return slices.Clone(i.docLinks)
}

func (i *Issue) ExtLinks() []HttpLink {
	return slices.Clone(i.extLinks)
}

// Markdown returns the message with a "See also" section listing the links.
func (i *Issue) Markdown() string {
	var sb strings.Builder
	sb.WriteString(string(i.mdMsg))

	links := append(i.DocLinks(), i.extLinks...)
	if len(links) > 0 {
		sb.WriteString("\n\n## See also\n")
		for _, link := range links {
			sb.WriteString("- <" + string(link) + ">\n")
		}
	}
	return sb.String()
}

// Render renders the issue with the given glamour style ("dark", "light", "notty", ...).
func (i *Issue) Render(stylePath string) (string, error) {
	return render(i.Markdown(), stylePath)
}

var (
	render = glamour.Render

	deployToolNotFoundIssue = &Issue{
		id: DeployToolNotFoundId,
		mdMsg: `
# Deploy tool not found!

The firebase CLI could not be found or started.

## Things you can try:
- Install the CLI:
~~~
$ npm install -g firebase-tools
~~~

- Point chandeploy at an explicit binary:
~~~
$ chandeploy deploy --firebase /path/to/firebase
~~~

- Or set it once in your config file:
~~~cue
firebase_path: "/path/to/firebase"
~~~`,
		extLinks: []HttpLink{"https://firebase.google.com/docs/cli"},
	}

	credentialsNotFoundIssue = &Issue{
		id: CredentialsNotFoundId,
		mdMsg: `
# No service account credentials!

A deploy needs a service account key file.

## Things you can try:
- Pass the key file path:
~~~
$ chandeploy deploy --credentials ./sa.json --channel preview
~~~

- Or pass the key contents inline (useful in CI secrets):
~~~
$ export FIREBASE_SERVICE_ACCOUNT="$(cat sa.json)"
$ chandeploy deploy --channel preview
~~~`,
		extLinks: []HttpLink{"https://cloud.google.com/iam/docs/keys-create-delete"},
	}

	invalidCredentialsIssue = &Issue{
		id: InvalidCredentialsId,
		mdMsg: `
# Inline credentials are not a JSON object!

The value passed with --credentials-json (or FIREBASE_SERVICE_ACCOUNT)
must be the full contents of a service account key file.

## Common issues:
- The secret holds a file path instead of the file contents
- The secret was base64 encoded
- The JSON was truncated when it was copied`,
	}

	channelRequiredIssue = &Issue{
		id: ChannelRequiredId,
		mdMsg: `
# No preview channel!

chandeploy could not work out which channel to deploy to.

## Channel sources (in order of precedence):
1. The --channel flag
2. CHANDEPLOY_CHANNEL_ID or channel_id in your config file
3. Derived from --pr and the current branch

## Things you can try:
~~~
$ chandeploy deploy --channel my-preview
$ chandeploy deploy --pr 42
~~~`,
	}

	deployFailedIssue = &Issue{
		id: DeployFailedId,
		mdMsg: `
# Deploy failed!

The firebase CLI ran but the deploy did not succeed.

## Things you can try:
- Read the tool output logged above for the underlying cause
- Check that the service account can deploy to the project
- Re-run with debug logging:
~~~
$ chandeploy --log-level debug deploy --channel preview
~~~`,
		extLinks: []HttpLink{"https://firebase.google.com/docs/hosting/test-preview-deploy"},
	}

	malformedOutputIssue = &Issue{
		id: MalformedOutputId,
		mdMsg: `
# Unexpected deploy output!

The firebase CLI exited successfully but its output was not a deploy result.

## Common causes:
- An old firebase-tools release without --json support for channel deploys
- A wrapper script that prints extra text to stdout

## Things you can try:
- Upgrade firebase-tools
- Run the command shown by --dry-run by hand and inspect its output`,
	}

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load configuration!

The chandeploy configuration file could not be read or is invalid.

## Things you can try:
- Show the file location:
~~~
$ chandeploy config path
~~~

- Recreate a default file:
~~~
$ chandeploy config init
~~~

- Check the file against the expected fields:
~~~cue
firebase_path: "firebase"
project_id:    "my-project"
output:        "text"   // text | json | yaml | markdown
log_level:     "info"   // debug | info | warn | error
~~~`,
	}

	branchUnavailableIssue = &Issue{
		id: BranchUnavailableId,
		mdMsg: `
# Could not determine the branch!

A channel id derived from --pr needs the pull request branch name.

## Things you can try:
- Pass it explicitly:
~~~
$ chandeploy deploy --pr 42 --branch my-feature
~~~

- Run from inside a Git checkout that is not on a detached HEAD`,
	}

	issues = map[Id]*Issue{
		deployToolNotFoundIssue.Id():  deployToolNotFoundIssue,
		credentialsNotFoundIssue.Id(): credentialsNotFoundIssue,
		invalidCredentialsIssue.Id():  invalidCredentialsIssue,
		channelRequiredIssue.Id():     channelRequiredIssue,
		deployFailedIssue.Id():        deployFailedIssue,
		malformedOutputIssue.Id():     malformedOutputIssue,
		configLoadFailedIssue.Id():    configLoadFailedIssue,
		branchUnavailableIssue.Id():   branchUnavailableIssue,
	}
)

// Values returns every catalog entry ordered by Id.
func Values() []*Issue {
	values := make([]*Issue, 0, len(issues))
	for issue := range maps.Values(issues) {
		values = append(values, issue)
	}
	slices.SortFunc(values, func(a, b *Issue) int { return cmp.Compare(a.id, b.id) })
	return values
}

func Get(id Id) *Issue {
	return issues[id]
}
