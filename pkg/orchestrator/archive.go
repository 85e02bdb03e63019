package orchestrator

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"time"
)

// ArchiveEntryName returns the archive entry name of a language variant.
func ArchiveEntryName(language string) string {
	return "output-" + language + ".html"
}

func writeArchive(w io.Writer, documents []Document) error {
	if w == nil {
		return errors.New("orchestrator: archive writer is nil")
	}
	if len(documents) == 0 {
		return errors.New("orchestrator: no documents to archive")
	}

	zw := zip.NewWriter(w)
	modified := time.Now()
	for _, doc := range documents {
		header := &zip.FileHeader{
			Name:     ArchiveEntryName(doc.Language),
			Method:   zip.Deflate,
			Modified: modified,
		}
		entry, err := zw.CreateHeader(header)
		if err != nil {
			return fmt.Errorf("orchestrator: archive %s: %w", header.Name, err)
		}
		if _, err := entry.Write(doc.Content); err != nil {
			return fmt.Errorf("orchestrator: archive %s: %w", header.Name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("orchestrator: close archive: %w", err)
	}
	return nil
}
