// Package pastebin provides a Go client for creating pastes through the
// Pastebin API (https://pastebin.com/doc_api).
//
// # Quick Start
//
//	package main
//
//	import (
//		"context"
//		"fmt"
//		"log"
//		"os"
//
//		"github.com/tombowditch/pastebin/pastebin"
//	)
//
//	func main() {
//		c := pastebin.New()
//
//		url, err := c.Upload(context.Background(), os.Getenv("PASTEBIN_API_KEY"), "Hello, World!",
//			pastebin.WithName("greeting"),
//			pastebin.WithVisibility(pastebin.Unlisted),
//			pastebin.WithExpiration(pastebin.TenMinutes),
//			pastebin.WithFormat("text"),
//		)
//		if err != nil {
//			log.Fatal(err)
//		}
//		fmt.Println("Paste URL:", url)
//	}
//
// Attributes that are not set are omitted from the request and the
// service picks its defaults.
//
// # Parsing user input
//
//	v, ok := pastebin.ParseVisibility("UNLISTED") // Unlisted, true
//	e, ok := pastebin.ParseExpiration("1w")       // OneWeek, true
//
// # Deferred uploads
//
//	b := pastebin.NewBuilder(key, content, pastebin.WithFormat("go"))
//	url, err := b.Execute()
//
// # Error Handling
//
//	url, err := c.Upload(ctx, key, content)
//	if pastebin.IsInvalidKey(err) {
//		// Check PASTEBIN_API_KEY
//	}
//	if pastebin.IsUnknown(err) {
//		// err.Error() carries the service's response or the transport error
//	}
//
// Empty content and content larger than MaxPasteSize are rejected before
// any request is sent.
package pastebin
