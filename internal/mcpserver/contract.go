package mcpserver

// SourceFormatContract describes the awesome-list Markdown grammar that the
// catalog parser understands. LLM consumers can read it to understand how
// categories, subcategories, and items map onto the source document.
const SourceFormatContract = `# Raido Source Format Contract

Raido ingests a single "awesome list" Markdown document and converts it into
a catalog of categories, subcategories, and link items.

## Structure

` + "```" + `markdown
## Category Title
- [Item Title](https://example.com/) - Short description.

### Subcategory Title
- [Another Item](https://example.com/other) - Another description.
` + "```" + `

## Rules

1. **Level-2 headings (` + "`##`" + `) start a category.** Its slug is derived from the
   title (lowercased, hyphenated).
2. **Level-3 headings (` + "`###`" + `) start a subcategory** under the most recent
   category. Its slug is namespaced: ` + "`" + `<category-slug>-<title-slug>` + "`" + `.
3. **Bullet items must start with a link.** The link text becomes the item
   title, the link destination its URL. Bullets without a leading link are
   skipped.
4. **Text after the link becomes the description.** A single leading dash
   (or en/em dash) separator is stripped.
5. **Content before the first ` + "`##`" + ` heading is ignored** (intro, badges,
   table of contents).
6. **Other heading levels (` + "`#`" + `, ` + "`####`" + `, ...) are plain content** and do not
   affect catalog structure.
`
