// Package sitetest builds throwaway film sites on disk for tests and asserts
// on the files a build writes.
package sitetest
