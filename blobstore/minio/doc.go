// Package minio provides a BlobStore for index segments backed by the
// MinIO client.
//
// MinIO speaks the S3 protocol, so this store also works against Ceph,
// SeaweedFS, Garage, and other S3-compatible systems without pulling in
// the AWS SDK. Segment objects land under the configured prefix, one
// object per segment.
//
// # Usage
//
//	client, err := minio.New("localhost:9000", &minio.Options{
//	    Creds:  credentials.NewStaticV4("minioadmin", "minioadmin", ""),
//	    Secure: false,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	store := minioblob.NewStore(client, "my-bucket", "indexes/")
//
//	// Persist a built index: one object per segment under the prefix.
//	if err := idx.Save(ctx, store, "city/v1"); err != nil {
//	    log.Fatal(err)
//	}
//	idx, err = strigo.Open(ctx, store, "city/v1")
//
// For HTTPS endpoints set Secure: true and, where required, a Region in
// the client options. Large segments stream through Create rather than
// buffering in memory.
package minio
