// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"cmp"
	"strings"

	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/slices"
)

type Id int

const (
	PipelineNotFoundId Id = iota + 1
	PipelineFailedId
	RecipeIncompleteId
	RecipeFileInvalidId
	ConfigLoadFailedId
	InvalidRuntimeModeId
	PermissionDeniedId
	TokenizeFailedId
	G2PFailedId
)

type MarkdownMsg string

type HttpLink string

type Issue struct {
	id       Id          // ID used to lookup the issue
	mdMsg    MarkdownMsg // Markdown text that will be rendered
	docLinks []HttpLink
	extLinks []HttpLink
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

// Render renders the Markdown message with the given glamour style
// ("dark", "light", "notty", or a path to a JSON style file).
func (i *Issue) Render(stylePath string) (string, error) {
	var md strings.Builder
	md.WriteString(string(i.mdMsg))
	if len(i.docLinks) > 0 || len(i.extLinks) > 0 {
		md.WriteString("\n\n## See also\n")
		for _, link := range i.docLinks {
			md.WriteString("- <" + string(link) + ">\n")
		}
		for _, link := range i.extLinks {
			md.WriteString("- <" + string(link) + ">\n")
		}
	}
	return render(md.String(), stylePath)
}

var (
	render = glamour.Render

	pipelineNotFoundIssue = &Issue{
		id: PipelineNotFoundId,
		mdMsg: `
# Pipeline script not found!

The recipe launcher could not start the pipeline entry point.

## Things you can try:
- Run asrrun from the recipe directory (the one containing ` + "`asr.sh`" + `):
~~~
$ cd egs2/csj/asr1
$ asrrun run
~~~

- Point at the script explicitly:
~~~
$ asrrun run --script ../../TEMPLATE/asr1/asr.sh
~~~

- Or set it once in your config file:
~~~cue
pipeline: script: "./asr.sh"
~~~`,
		extLinks: []HttpLink{"https://espnet.github.io/espnet/espnet2_tutorial.html"},
	}

	pipelineFailedIssue = &Issue{
		id: PipelineFailedId,
		mdMsg: `
# Pipeline failed

The pipeline exited with a non-zero status. Its own output above describes the failing stage.

## Things you can try:
- Resume from the failing stage by forwarding ` + "`--stage`" + `:
~~~
$ asrrun run -- --stage 5
~~~
- Inspect the exact invocation without running it:
~~~
$ asrrun args --format shell
~~~`,
	}

	recipeIncompleteIssue = &Issue{
		id: RecipeIncompleteId,
		mdMsg: `
# Recipe is incomplete

One or more recipe values are empty, so the pipeline was not started.

## Things you can try:
- Show the resolved recipe:
~~~
$ asrrun recipe show
~~~
- Fill the missing value from the command line:
~~~
$ asrrun run --set train_set=train_nodup
~~~`,
	}

	recipeFileInvalidIssue = &Issue{
		id: RecipeFileInvalidId,
		mdMsg: `
# Invalid recipe file

The recipe file could not be decoded. Recipe files are flat maps of string values in CUE, TOML or YAML.

## Example (TOML):
~~~toml
train_set = "train_nodup"
test_sets = "eval1 eval2 eval3"
speed_perturb_factors = "0.9 1.0 1.1"
~~~

## Things you can try:
- Generate a template:
~~~
$ asrrun recipe init --format toml --output recipe.toml
~~~`,
	}

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load configuration

The configuration file exists but could not be loaded.

## Things you can try:
- Check the CUE syntax of your config file
- Show where asrrun looks for it:
~~~
$ asrrun config path
~~~
- Regenerate a default one:
~~~
$ asrrun config init
~~~`,
	}

	invalidRuntimeModeIssue = &Issue{
		id: InvalidRuntimeModeId,
		mdMsg: `
# Invalid runtime mode

Valid runtimes are:
- ` + "`native`" + ` executes the pipeline script directly
- ` + "`virtual`" + ` interprets the script with the built-in shell
- ` + "`interactive`" + ` executes it attached to a pseudo-terminal`,
	}

	permissionDeniedIssue = &Issue{
		id: PermissionDeniedId,
		mdMsg: `
# Permission denied

The pipeline script exists but is not executable.

## Things you can try:
~~~
$ chmod +x asr.sh
~~~
- Or run it through the built-in shell:
~~~
$ asrrun run --runtime virtual
~~~`,
	}

	tokenizeFailedIssue = &Issue{
		id: TokenizeFailedId,
		mdMsg: `
# Tokenization failed

## Things you can try:
- Check the ` + "`--field`" + ` format: ` + "`2-`" + `, ` + "`2-5`" + ` or ` + "`-5`" + ` (1-based)
- Check ` + "`--add-symbol`" + ` values: ` + "`<blank>:0`" + `, ` + "`<sos/eos>:-1`" + `
- Pass ` + "`--output`" + ` as ` + "`PHONE_PATH,CHAR_PATH`" + ` or ` + "`-`",
	}

	g2pFailedIssue = &Issue{
		id: G2PFailedId,
		mdMsg: `
# Grapheme-to-phoneme conversion failed

The g2p command must read one sentence per line on stdin and write exactly one phoneme line per input line.

## Example:
~~~
$ asrrun add-phoneme --input data/train/text --output data/train/text.phn \
    --g2p-command "python3 pyscripts/text/for_ngram_phone.py"
~~~`,
	}

	issues = map[Id]*Issue{
		pipelineNotFoundIssue.Id():   pipelineNotFoundIssue,
		pipelineFailedIssue.Id():     pipelineFailedIssue,
		recipeIncompleteIssue.Id():   recipeIncompleteIssue,
		recipeFileInvalidIssue.Id():  recipeFileInvalidIssue,
		configLoadFailedIssue.Id():   configLoadFailedIssue,
		invalidRuntimeModeIssue.Id(): invalidRuntimeModeIssue,
		permissionDeniedIssue.Id():   permissionDeniedIssue,
		tokenizeFailedIssue.Id():     tokenizeFailedIssue,
		g2pFailedIssue.Id():          g2pFailedIssue,
	}
)

// Values returns every catalog entry ordered by id.
func Values() []*Issue {
	out := make([]*Issue, 0, len(issues))
	for _, i := range issues {
		out = append(out, i)
	}
	slices.SortFunc(out, func(a, b *Issue) int { return cmp.Compare(a.id, b.id) })
	return out
}

func Get(id Id) *Issue {
	return issues[id]
}
