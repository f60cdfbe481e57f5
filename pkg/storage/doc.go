// Package storage issues time-limited presigned upload URLs against S3 or
// any S3-compatible service such as MinIO. The gateway never proxies file
// bytes; clients PUT directly to object storage using the signed URL.
package storage
