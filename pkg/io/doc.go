// Package io reads and writes template definitions as JSON.
//
// # JSON Format
//
// A template file is a versioned envelope around the definition:
//
//	{
//	  "version": 1,
//	  "template": {
//	    "id": "6f1c...",
//	    "name": "invoice",
//	    "page_width": 595,
//	    "page_height": 842,
//	    "margins": {"top": 36, "right": 36, "bottom": 36, "left": 36},
//	    "orientation": "portrait",
//	    "elements": [
//	      {"id": "a1", "kind": "text", "x": 36, "y": 36, ...}
//	    ]
//	  }
//	}
//
// Elements are written in list order, which is the insertion order used to
// break z-index ties, so a round trip preserves the paint order exactly.
// Resolved table vectors and their layout fingerprint are written too, so a
// reloaded template does not need a layout pass until something changes.
//
// # Import
//
// Use [ImportJSON] to read a template from a file path, or [ReadJSON] to read
// from any io.Reader. Both check only the envelope by default, so a template
// autosaved mid-edit reopens as it was left. Pass [WithValidation] to also
// reject unknown element kinds, missing payloads and duplicate element IDs.
//
// # Export
//
// Use [ExportJSON] to write a template to a file, or [WriteJSON] to write to
// any io.Writer. [Marshal] and [Unmarshal] work on byte slices and are what
// the stores and the autosaver use.
package io
