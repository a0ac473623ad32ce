// Package docxkit builds minimal Word (OOXML) packages from an in-memory
// document model and strips XML comments from existing ones.
//
// A package is a zip archive of XML parts. The minimal member set is
//
//	[Content_Types].xml
//	_rels/.rels
//	word/document.xml
//
// and WithFullParts adds word/_rels/document.xml.rels, word/styles.xml,
// word/settings.xml and docProps/core.xml, docProps/app.xml for readers that
// validate the fuller set.
//
// Building:
//
//	doc := docxkit.NewDocument()
//	doc.AddParagraph(docxkit.AlignCenter).AddRun(docxkit.Run{Text: "착공신고서", Bold: true, Size: 18})
//	tbl, _ := doc.AddTable(1, 2)
//	tbl.ColumnWidths = []int{2000, 7000}
//	tbl.SetCellBorders(docxkit.SingleBorder())
//	cell, _ := tbl.Cell(0, 1)
//	cell.SetText("{{사업자등록번호}}", false)
//
//	if err := docxkit.NewBuilder().WriteFile(doc, "form.docx"); err != nil {
//	    log.Fatal(err)
//	}
//
// Placeholder tokens such as {{사업자등록번호}} are literal text. The default
// markup strategy writes each model run as exactly one w:r, so a token
// written in one run can always be found by plain substring search.
// The object strategy goes through the xml package and merges adjacent runs
// with equal formatting afterwards.
//
// Stripping:
//
//	res, err := docxkit.StripFile("form.docx", "")
//	// res.Output == "form_nocomments.docx", res.After == 0
//
// The stripper extracts every member into a temporary directory that is
// removed on every return path, rewrites word/document.xml without
// comments and re-assembles the members in their original order.
//
// Errors are typed: IOError, PackagingError, NotFoundError and
// ValidationError, each testable with errors.As or the IsXxxError helpers.
package docxkit
