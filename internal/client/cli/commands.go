package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/dmitrijs2005/blobhost/internal/filex"
	"github.com/dustin/go-humanize"
	"github.com/h2non/filetype"
)

var errUsage = errors.New("usage")

// getPassword is swapped in tests to avoid touching the terminal.
var getPassword = GetPassword

func (a *App) password() (string, error) {
	if a.config.UploadPassword != "" {
		return a.config.UploadPassword, nil
	}
	pw, err := getPassword(a.out)
	if err != nil {
		return "", err
	}
	return pw, nil
}

func (a *App) objectURL(name string) string {
	return strings.TrimRight(a.config.ServerURL, "/") + "/" + name
}

func (a *App) upload(ctx context.Context, args []string) error {
	if len(args) < 1 || len(args) > 2 {
		return fmt.Errorf("%w: upload <file> [id]", errUsage)
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}

	var customID string
	if len(args) == 2 {
		customID = args[1]
	}

	pw, err := a.password()
	if err != nil {
		return err
	}

	res, err := a.client.Upload(ctx, pw, data, customID)
	if err != nil {
		return err
	}

	name := res.ID
	if res.FileExtension != "" {
		name += "." + res.FileExtension
	}

	fmt.Fprintf(a.out, "ID:          %s\n", res.ID)
	fmt.Fprintf(a.out, "Delete key:  %s\n", res.DeleteKey)
	fmt.Fprintf(a.out, "Type:        %s\n", res.ContentType)
	fmt.Fprintf(a.out, "Size:        %s in %d chunk(s)\n", humanize.IBytes(uint64(len(data))), res.TotalChunks)
	fmt.Fprintf(a.out, "URL:         %s\n", a.objectURL(name))
	fmt.Fprintf(a.out, "Delete URL:  %s\n", a.objectURL(res.ID+"/d/"+res.DeleteKey))
	return nil
}

// outputName picks a file name for id when none is given, using the
// detected extension of data.
func outputName(id string, data []byte) string {
	if strings.Contains(id, ".") {
		return id
	}
	kind, err := filetype.Match(data)
	if err != nil || kind == filetype.Unknown {
		return id
	}
	return id + "." + kind.Extension
}

func (a *App) get(ctx context.Context, args []string) error {
	if len(args) < 1 || len(args) > 2 {
		return fmt.Errorf("%w: get <id> [output]", errUsage)
	}

	obj, err := a.client.Get(ctx, args[0])
	if err != nil {
		return err
	}

	out := outputName(args[0], obj.Data)
	if len(args) == 2 {
		out = args[1]
	}

	path, err := filex.EnsureParentDir(out)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, obj.Data, 0o644); err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Saved %s (%s, %s)\n", path, obj.ContentType, humanize.IBytes(uint64(obj.Size)))
	return nil
}

func (a *App) info(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: info <id>", errUsage)
	}

	obj, err := a.client.Info(ctx, args[0])
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "ID:        %s\n", obj.ID)
	fmt.Fprintf(a.out, "Type:      %s\n", obj.ContentType)
	fmt.Fprintf(a.out, "Size:      %s (%s bytes)\n", humanize.IBytes(uint64(obj.Size)), humanize.Comma(obj.Size))
	fmt.Fprintf(a.out, "Chunks:    %d\n", obj.Chunks)
	fmt.Fprintf(a.out, "Uploaded:  %s (%s)\n", obj.UploadedAt.UTC().Format("2006-01-02 15:04:05 MST"), humanize.Time(obj.UploadedAt))
	return nil
}

func (a *App) delete(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("%w: delete <id> <key>", errUsage)
	}

	if err := a.client.Delete(ctx, args[0], args[1]); err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Deleted %s\n", args[0])
	return nil
}
