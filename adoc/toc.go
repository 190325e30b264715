package adoc

import (
	"strings"
	"unicode"
)

// generateID derives an anchor id from a section title: lowercased, with
// every run of non-alphanumeric characters collapsed to one underscore.
func generateID(title string) string {
	id := make([]rune, 0, len(title)+1)
	id = append(id, '_')
	for _, c := range strings.ToLower(title) {
		if unicode.IsLetter(c) || unicode.IsDigit(c) {
			id = append(id, c)
		} else if id[len(id)-1] != '_' {
			id = append(id, '_')
		}
	}
	return strings.TrimRight(string(id), "_")
}

// populateTableOfContents fills the Entries of every TableOfContents node
// in the tree from the document's sections, honoring each node's MaxDepth.
func populateTableOfContents(doc *Document) {
	var tocs []*TableOfContents
	walkElements(doc.Elements(), func(el Element) {
		if toc, ok := el.(*TableOfContents); ok {
			tocs = append(tocs, toc)
		}
	})
	for _, toc := range tocs {
		toc.Entries = collectTOCEntries(doc, toc.MaxDepth)
	}
}

// walkElements visits every node of the tree depth-first in source order.
func walkElements(els []Element, visit func(Element)) {
	for _, el := range els {
		visit(el)
		walkElements(el.Children(), visit)
	}
}

// collectTOCEntries nests the document's sections up to maxDepth into
// entry trees. Level 0 container sections are transparent: their nested
// sections count as if they stood at the top level.
func collectTOCEntries(doc *Document, maxDepth int) []*TableOfContentsEntry {
	var root []*TableOfContentsEntry
	var stack []*TableOfContentsEntry

	var walk func(els []Element)
	walk = func(els []Element) {
		for _, el := range els {
			sec, ok := el.(*Section)
			if !ok {
				continue
			}
			if sec.Level == 0 {
				walk(sec.Children())
				continue
			}
			if sec.Level <= maxDepth {
				entry := &TableOfContentsEntry{
					Title: sec.Title,
					Id:    sec.GetAttribute("id"),
					Level: sec.Level,
				}
				if entry.Id == "" {
					entry.Id = generateID(sec.Title)
				}
				for len(stack) > 0 && stack[len(stack)-1].Level >= entry.Level {
					stack = stack[:len(stack)-1]
				}
				if len(stack) == 0 {
					root = append(root, entry)
				} else {
					parent := stack[len(stack)-1]
					parent.Entries = append(parent.Entries, entry)
				}
				stack = append(stack, entry)
			}
			walk(sec.Children())
		}
	}
	walk(doc.Elements())
	return root
}
