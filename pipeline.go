package tftbmp

import (
	"bytes"
	"context"
	"errors"
	"io/ioutil"
	"log"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"

	"github.com/bodgit/tftbmp/bmp"
	"github.com/bodgit/tftbmp/storage"
)

const importWorkers = 10

type bitmapFile struct {
	name string
	data []byte
}

func findBitmaps(ctx context.Context, base string) (<-chan string, <-chan error, error) {
	out := make(chan string)
	errc := make(chan error, 1)
	go func() {
		defer close(out)
		defer close(errc)
		errc <- filepath.Walk(base, func(file string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}

			// Ignore any hidden files or directories, otherwise we end up fighting with things like Spotlight, etc.
			if info.Name()[0] == '.' && file != base {
				if info.Mode().IsDir() {
					return filepath.SkipDir
				}
				return nil
			}

			if !info.Mode().IsRegular() || !strings.EqualFold(filepath.Ext(file), ".bmp") {
				return nil
			}

			select {
			case out <- file:
			case <-ctx.Done():
				return errors.New("walk cancelled")
			}

			return nil
		})
	}()
	return out, errc, nil
}

func validateWorker(ctx context.Context, wg *sync.WaitGroup, base string, in <-chan string, out chan<- bitmapFile, logger *log.Logger) (<-chan error, error) {
	errc := make(chan error, 1)
	wg.Add(1)
	go func() {
		defer wg.Done()
		defer close(errc)
		for file := range in {
			b, err := ioutil.ReadFile(file)
			if err != nil {
				errc <- err
				return
			}

			if _, err := bmp.ReadHeader(bytes.NewReader(b)); err != nil {
				logger.Printf("Skipping \"%s\": %s\n", file, err)
				continue
			}

			rel, err := filepath.Rel(base, file)
			if err != nil {
				errc <- err
				return
			}

			select {
			case out <- bitmapFile{path.Join("/", filepath.ToSlash(rel)), b}:
			case <-ctx.Done():
				return
			}
		}
	}()
	return errc, nil
}

func storeWorker(db *storage.DB, in <-chan bitmapFile, logger *log.Logger) (<-chan error, error) {
	errc := make(chan error, 1)
	go func() {
		defer close(errc)
		for f := range in {
			changed, err := db.Put(f.name, f.data)
			if err != nil {
				errc <- err
				return
			}
			if changed {
				logger.Printf("Stored \"%s\"\n", f.name)
			} else {
				logger.Printf("Unchanged \"%s\"\n", f.name)
			}
		}
	}()
	return errc, nil
}

func waitForPipeline(errs ...<-chan error) error {
	errc := mergeErrors(errs...)
	for err := range errc {
		if err != nil {
			return err
		}
	}
	return nil
}

func mergeErrors(cs ...<-chan error) <-chan error {
	var wg sync.WaitGroup
	out := make(chan error, len(cs))
	wg.Add(len(cs))
	for _, c := range cs {
		go func(c <-chan error) {
			for n := range c {
				out <- n
			}
			wg.Done()
		}(c)
	}
	go func() {
		wg.Wait()
		close(out)
	}()
	return out
}

// Import walks the directory tree at path and copies every valid bitmap it
// finds into db, keyed by its slash separated path relative to the root of
// the tree. Files that are not bitmaps the decoder accepts are logged and
// skipped.
func Import(db *storage.DB, dir string, logger *log.Logger) error {
	if logger == nil {
		logger = log.New(ioutil.Discard, "", 0)
	}

	base, err := filepath.Abs(dir)
	if err != nil {
		return err
	}

	ctx, cancelFunc := context.WithCancel(context.Background())
	defer cancelFunc()

	var errcList []<-chan error

	files, errc, err := findBitmaps(ctx, base)
	if err != nil {
		return err
	}
	errcList = append(errcList, errc)

	var wg sync.WaitGroup
	valid := make(chan bitmapFile)
	for i := 0; i < importWorkers; i++ {
		errc, err := validateWorker(ctx, &wg, base, files, valid, logger)
		if err != nil {
			return err
		}
		errcList = append(errcList, errc)
	}
	go func() {
		wg.Wait()
		close(valid)
	}()

	errc, err = storeWorker(db, valid, logger)
	if err != nil {
		return err
	}
	errcList = append(errcList, errc)

	return waitForPipeline(errcList...)
}
