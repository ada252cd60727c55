// Package io reads and writes scene files.
//
// # Import
//
// Use [ImportScene] to read a scene from a file path, or [ReadScene] to read
// from any io.Reader:
//
//	doc, err := io.ImportScene("flow.excalidraw")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Both accept the bare-array and the object form and return the same coded
// errors as [scene.Parse]. A missing file is reported as FILE_NOT_FOUND.
//
// # Export
//
// Use [ExportScene] to write a scene to a file, or [WriteScene] to write to
// any io.Writer:
//
//	err := io.ExportScene(doc, "flow.roundtrip.excalidraw")
//
// Output is the reconstructed scene object (metadata keys first, then
// "elements"), indented with two spaces and terminated by a newline.
//
// # Verification
//
// [VerifyRoundTrip] parses raw input, reconstructs it and compares the two
// JSON values. Null element fields are dropped before comparing. A difference
// is reported as ROUNDTRIP_MISMATCH wrapping a [*Mismatch] that names the
// first differing path.
//
// # Concurrency
//
// All functions only read the document and are safe to call concurrently.
package io
