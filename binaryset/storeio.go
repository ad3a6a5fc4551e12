package binaryset

import (
	"context"
	"fmt"
	"io"
	"path"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/strigo/blobstore"
	"github.com/hupe1980/strigo/resource"
)

const defaultTransferConcurrency = 4

type transferOptions struct {
	concurrency int
	controller  *resource.Controller
}

// TransferOption configures Upload and Download.
type TransferOption func(*transferOptions)

// WithConcurrency caps the number of blobs transferred in parallel.
// Default: 4.
func WithConcurrency(n int) TransferOption {
	return func(o *transferOptions) {
		if n > 0 {
			o.concurrency = n
		}
	}
}

// WithController throttles the transfer against a shared resource
// controller: transfer slots, IO throughput, and in-flight buffer memory.
func WithController(rc *resource.Controller) TransferOption {
	return func(o *transferOptions) {
		o.controller = rc
	}
}

func applyTransferOptions(opts []TransferOption) transferOptions {
	o := transferOptions{concurrency: defaultTransferConcurrency}
	for _, fn := range opts {
		fn(&o)
	}
	return o
}

// Upload writes every blob in the set as an object under prefix. A blob
// named "trie" uploaded with prefix "idx/v1" becomes object "idx/v1/trie".
// Blobs are uploaded in parallel; the first error cancels the rest.
func Upload(ctx context.Context, store blobstore.BlobStore, prefix string, s *BinarySet, opts ...TransferOption) error {
	o := applyTransferOptions(opts)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.concurrency)

	for name, data := range s.All() {
		key := path.Join(prefix, name)
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			if err := o.controller.AcquireTransfer(gctx); err != nil {
				return err
			}
			defer o.controller.ReleaseTransfer()

			if err := o.controller.AcquireIO(gctx, len(data)); err != nil {
				return err
			}
			if err := store.Put(gctx, key, data); err != nil {
				return fmt.Errorf("upload %q: %w", name, err)
			}
			return nil
		})
	}

	return g.Wait()
}

// Download fetches every object under prefix into a BinarySet, undoing
// Upload's layout. Objects are fetched in parallel; blob order in the
// returned set follows the sorted object names.
func Download(ctx context.Context, store blobstore.BlobStore, prefix string, opts ...TransferOption) (*BinarySet, error) {
	o := applyTransferOptions(opts)

	dir := prefix
	if dir != "" && !strings.HasSuffix(dir, "/") {
		dir += "/"
	}

	names, err := store.List(ctx, dir)
	if err != nil {
		return nil, err
	}
	sort.Strings(names)

	results := make([][]byte, len(names))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.concurrency)

	for i, name := range names {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			if err := o.controller.AcquireTransfer(gctx); err != nil {
				return err
			}
			defer o.controller.ReleaseTransfer()

			blob, err := store.Open(gctx, name)
			if err != nil {
				return fmt.Errorf("download %q: %w", name, err)
			}
			defer blob.Close()

			// Bound the bytes buffered across concurrent fetches.
			size := blob.Size()
			if err := o.controller.AcquireMemory(gctx, size); err != nil {
				return err
			}
			defer o.controller.ReleaseMemory(size)

			r, err := blob.ReadRange(gctx, 0, size)
			if err != nil {
				return fmt.Errorf("download %q: %w", name, err)
			}
			defer r.Close()

			data, err := io.ReadAll(resource.NewRateLimitedReader(gctx, r, o.controller))
			if err != nil {
				return fmt.Errorf("download %q: %w", name, err)
			}

			results[i] = data
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	set := New()
	for i, name := range names {
		set.Append(strings.TrimPrefix(name, dir), results[i])
	}
	return set, nil
}
