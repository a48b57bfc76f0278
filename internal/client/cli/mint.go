package cli

import (
	"context"
	"fmt"
	"mime"
	"net/http"
	"os"
	"path/filepath"

	"github.com/usattar/mintvault/internal/client/pinning"
	"github.com/usattar/mintvault/internal/client/services"
)

// readFile is a test seam for os.ReadFile.
var readFile = os.ReadFile

// Mint prompts for an asset file, a name, and a description, then runs the
// mint workflow, printing progress as it advances.
func (a *App) Mint(ctx context.Context) error {
	if !a.isLoggedIn() {
		printlnFn("Sign in first ('login')")
		return nil
	}
	if !a.isConnected() {
		printlnFn("Connect a wallet first ('connect')")
		return nil
	}

	path, err := getSimpleText(a.reader, "Path to asset file", os.Stdout)
	if err != nil {
		return err
	}
	data, err := readFile(path)
	if err != nil {
		printlnFn("Reading file failed:", err)
		return err
	}

	name, err := getSimpleText(a.reader, "Name", os.Stdout)
	if err != nil {
		return err
	}
	description, err := getSimpleText(a.reader, "Description", os.Stdout)
	if err != nil {
		return err
	}

	req := services.MintRequest{
		Asset: pinning.Asset{
			Data:        data,
			FileName:    filepath.Base(path),
			ContentType: detectContentType(path, data),
		},
		Name:        name,
		Description: description,
	}

	rec, err := a.mintService.Mint(ctx, req, func(stage services.Stage, message string) {
		printlnFn(message)
	})
	if err != nil {
		printlnFn("Mint failed:", err)
		return err
	}

	printlnFn(fmt.Sprintf("Token ID: %d", rec.TokenID))
	return nil
}

// detectContentType resolves the asset MIME type from the file extension,
// sniffing the content when the extension is unknown.
func detectContentType(path string, data []byte) string {
	if ct := mime.TypeByExtension(filepath.Ext(path)); ct != "" {
		return ct
	}
	return http.DetectContentType(data)
}
