package extraction

import (
	"archive/zip"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

const documentPart = "word/document.xml"

// ExtractDocx returns the body paragraphs of a DOCX file, one per line.
// Paragraphs nested in tables are not part of the body.
func ExtractDocx(path string) (string, error) {
	archive, err := zip.OpenReader(path)
	if err != nil {
		return "", fmt.Errorf("open docx: %w", err)
	}
	defer archive.Close()

	for _, file := range archive.File {
		if file.Name != documentPart {
			continue
		}
		rc, err := file.Open()
		if err != nil {
			return "", fmt.Errorf("open %s: %w", documentPart, err)
		}
		defer rc.Close()

		paragraphs, err := bodyParagraphs(rc)
		if err != nil {
			return "", err
		}
		return strings.Join(paragraphs, "\n"), nil
	}

	return "", fmt.Errorf("docx has no %s", documentPart)
}

// skippedSubtree reports elements whose text is not part of the paragraph:
// text boxes and the compatibility copy of alternate content
func skippedSubtree(name xml.Name) bool {
	return name.Local == "txbxContent" || name.Local == "Fallback"
}

// bodyParagraphs walks the WordprocessingML tree keeping a stack of element
// names so that only w:p elements directly under w:body are collected
func bodyParagraphs(r io.Reader) ([]string, error) {
	decoder := xml.NewDecoder(r)

	var (
		stack      []string
		paragraphs []string
		current    strings.Builder
		inBodyPara bool
		inText     bool
		skipDepth  int
	)

	for {
		tok, err := decoder.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", documentPart, err)
		}

		if skipDepth > 0 {
			switch tok.(type) {
			case xml.StartElement:
				skipDepth++
			case xml.EndElement:
				skipDepth--
			}
			continue
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if inBodyPara && skippedSubtree(t.Name) {
				skipDepth = 1
				continue
			}
			name := t.Name.Local
			switch {
			case name == "p" && len(stack) > 0 && stack[len(stack)-1] == "body":
				inBodyPara = true
				current.Reset()
			case inBodyPara && name == "t":
				inText = true
			case inBodyPara && name == "tab":
				current.WriteString("\t")
			case inBodyPara && (name == "br" || name == "cr"):
				current.WriteString("\n")
			}
			stack = append(stack, name)
		case xml.EndElement:
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
			name := t.Name.Local
			switch {
			case name == "t":
				inText = false
			case name == "p" && inBodyPara && len(stack) > 0 && stack[len(stack)-1] == "body":
				paragraphs = append(paragraphs, current.String())
				inBodyPara = false
			}
		case xml.CharData:
			if inBodyPara && inText {
				current.Write(t)
			}
		}
	}

	return paragraphs, nil
}
