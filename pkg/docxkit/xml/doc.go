// Package xml provides the WordprocessingML structures docxkit reads and writes.
//
// A DOCX file is a ZIP archive of XML parts. The body part (word/document.xml)
// is an ordered sequence of paragraphs and tables; paragraphs hold runs, and a
// run is the smallest unit of formatted text.
//
// # Structure Organization
//
//   - types.go: shared interfaces, namespaces and small value elements
//   - document.go: Document, Body and section properties
//   - paragraph.go: Paragraph and its properties
//   - run.go: Run, Text, Break, Tab and run properties
//   - table.go: Table, rows, cells, widths and borders
//
// # Marshaling
//
// Every type marshals itself with a literal "w:" prefix in the element name
// instead of relying on encoding/xml namespace handling, so the output matches
// what Word writes. Document declares the w and r prefixes on the root.
//
// Unmarshaling matches on local names and accepts any namespace prefix. Unknown
// elements are skipped; these structures are not a lossless round trip of an
// arbitrary Word document, only of the subset docxkit produces and inspects.
//
// Example:
//
//	doc := &xml.Document{
//	    Body: &xml.Body{
//	        Elements: []xml.BodyElement{
//	            &xml.Paragraph{
//	                Runs: []xml.Run{
//	                    {Content: []xml.RunContent{&xml.Text{Content: "{{name}}"}}},
//	                },
//	            },
//	        },
//	    },
//	}
//	out, err := xml.Marshal(doc)
package xml
