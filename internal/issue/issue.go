// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/slices"
)

type Id int

const (
	ContentRootNotFoundId Id = iota + 1
	DescriptorParseErrorId
	ManifestWriteFailedId
	ConfigLoadFailedId
	WatchLimitReachedId
	EntryOutputFailedId
)

type MarkdownMsg string

type HttpLink string

type Issue struct {
	id       Id          // ID used to lookup the issue
	mdMsg    MarkdownMsg // Markdown text that will be rendered
	docLinks []HttpLink
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

// Render renders the issue text with the named glamour style
// ("dark", "light", "notty", "auto").
func (i *Issue) Render(stylePath string) (string, error) {
	extraMd := ""
	if len(i.docLinks) > 0 {
		extraMd += "\n\n## See also\n"
		for _, link := range i.docLinks {
			extraMd += "\n- <" + string(link) + ">"
		}
	}
	return render(string(i.mdMsg)+extraMd, stylePath)
}

var (
	render = glamour.Render

	contentRootNotFoundIssue = &Issue{
		id: ContentRootNotFoundId,
		mdMsg: `
# Content root not found

sitegen looks for project folders in the content root (` + "`content.dir`" + `,
` + "`projects`" + ` by default) relative to the site root.

## Things you can try
- Run sitegen from the site root, or pass ` + "`--config path/to/sitegen.cue`" + `.
- Create the directory:
~~~
$ mkdir projects
~~~
- Point the configuration at the right place:
~~~cue
content: dir: "content/projects"
~~~`,
	}

	descriptorParseErrorIssue = &Issue{
		id: DescriptorParseErrorId,
		mdMsg: `
# A project descriptor could not be parsed

Each project folder holds a ` + "`project.json`" + ` object. Folders whose
descriptor is not valid JSON are skipped; the rest of the site still builds.

## Expected shape
~~~json
{
  "name": "Gantt Chart",
  "slug": "gantt-chart",
  "description": "Roadmap view",
  "template": "basic",
  "created": "2024-06-01",
  "features": { "charts": true }
}
~~~

## Rules
- ` + "`name`" + ` is required.
- ` + "`slug`" + ` uses lowercase letters, numbers and hyphens only.
- ` + "`created`" + ` is a ` + "`YYYY-MM-DD`" + ` date.`,
	}

	manifestWriteFailedIssue = &Issue{
		id: ManifestWriteFailedId,
		mdMsg: `
# The manifest could not be written

The project manifest (` + "`manifest.path`" + `) is rewritten on every
rebuild. In watch mode the next change retries the write.

## Things you can try
- Check that the output directory exists or can be created.
- Check file permissions on the manifest and its directory.
- Make sure no other process holds the file open exclusively.`,
	}

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Configuration could not be loaded

sitegen reads ` + "`sitegen.cue`" + ` from the site root. Every field is optional.

## Things you can try
- Validate the file against the defaults:
~~~
$ sitegen config dump
~~~
- Remove the offending field to fall back to its default.`,
	}

	watchLimitReachedIssue = &Issue{
		id: WatchLimitReachedId,
		mdMsg: `
# The file watcher ran out of resources

The operating system refused to watch more directories.

## Things you can try
- Raise the inotify watch limit (Linux):
~~~
$ sudo sysctl fs.inotify.max_user_watches=524288
~~~
- Exclude large directories from the site root.`,
	}

	entryOutputFailedIssue = &Issue{
		id: EntryOutputFailedId,
		mdMsg: `
# The entry table could not be written

The bundler reads its multi-page inputs from ` + "`entries.output`" + `.

## Things you can try
- Check that the output directory is writable.
- Print the table instead:
~~~
$ sitegen entries --format json
~~~`,
	}

	issues = map[Id]*Issue{
		contentRootNotFoundIssue.Id():  contentRootNotFoundIssue,
		descriptorParseErrorIssue.Id(): descriptorParseErrorIssue,
		manifestWriteFailedIssue.Id():  manifestWriteFailedIssue,
		configLoadFailedIssue.Id():     configLoadFailedIssue,
		watchLimitReachedIssue.Id():    watchLimitReachedIssue,
		entryOutputFailedIssue.Id():    entryOutputFailedIssue,
	}
)

// Values returns every catalog entry ordered by Id.
func Values() []*Issue {
	out := make([]*Issue, 0, len(issues))
	for _, i := range issues {
		out = append(out, i)
	}
	slices.SortFunc(out, func(a, b *Issue) int { return int(a.id) - int(b.id) })
	return out
}

// Get returns the catalog entry for id, or nil.
func Get(id Id) *Issue {
	return issues[id]
}
