/*
Package filelist parses the file-list document that names which files to
backport.

	            +-------------+
	            |  File List  |
	            |   (text)    |
	            +------+------+
	                   |
	      +------------+------------+
	      |                         |
	+-----+-----+             +-----+-----+
	| Sections  |             |   Paths   |
	| (grouping)|             | (ordered) |
	+-----------+             +-----------+

🔄 Format:

	# comments and blank lines are ignored
	Frontend
	- src/app.js
	- src/app.css (restyled header)
	static/logo.png
	Docs
	docs/README.md

A line is a file path when it starts with "-" or ends in a known extension.
Anything else opens a section. A trailing "(comment)" is attached to the path.

📝 Sections:
The parser is a two-state machine, awaiting-first-file and in-file-run. Every
header line opens a new section and moves to awaiting-first-file; every file
line joins the open section and moves to in-file-run. A header that follows
another header leaves the earlier section in place with zero files; callers
that report per-section counts use NonEmptySections.

🔍 Example:

	list, err := filelist.Load(ctx, osfs.New(root), "backport.txt", content.UTF8())
	if errors.Is(err, filelist.ErrEmpty) {
		// nothing to do
	}
	for _, e := range list.Entries {
		fmt.Println(e.Section, e.Path, e.Comment)
	}
*/
package filelist
