// Package services holds the error taxonomy and context plumbing shared by
// the external tool adapters (yt-dlp, ffmpeg) and the session engine.
//
// Every failure produced by an adapter is tagged with one of the exported
// sentinel errors so the engine can map it to a single reply template and a
// defined next state without inspecting error strings.
package services
