// Package s3 provides an S3 implementation of the blobstore.BlobStore interface.
//
// # Usage
//
//	store, err := s3.New(ctx, "my-bucket",
//	    s3.WithPrefix("indexes/"),
//	    s3.WithRegion("us-east-1"),
//	)
//
// # Features
//
//   - Range reads for efficient partial fetches
//   - Multipart uploads with CRC32C checksums for large segments
//   - Automatic pagination for listing
//   - Configurable prefix for multi-tenant isolation
//
// # Variants
//
// ExpressStore targets S3 Express One Zone directory buckets and adds
// conditional writes (PutIfNotExists). DDBCommitStore layers a DynamoDB
// commit log on top of a Store so concurrent writers can atomically
// advance the CURRENT manifest pointer.
package s3
