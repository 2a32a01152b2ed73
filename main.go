// Package main provides the entry point for the Image Annotator application.
package main

import (
	"log"
	"os"

	"image-annotator/internal/app"
	"image-annotator/internal/interaction"
	"image-annotator/internal/ocr"
	"image-annotator/internal/version"
	"image-annotator/ui/mainwindow"
	"image-annotator/ui/prefs"

	fyneapp "fyne.io/fyne/v2/app"
)

const appID = "io.github.image-annotator"

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Printf("Starting Image Annotator v%s", version.Version)

	a := fyneapp.NewWithID(appID)
	a.Settings().SetTheme(&app.AnnotatorTheme{})

	appPrefs := prefs.Load()
	appState := app.NewState(interactionOptions(appPrefs))

	var recognizer app.TextRecognizer
	if appPrefs.Bool(prefs.KeyOCREnabled, true) {
		engine, err := ocr.NewEngine("eng")
		if err != nil {
			log.Printf("OCR unavailable: %v", err)
		} else {
			defer engine.Close()
			engine.SetWhitelist(appPrefs.String(prefs.KeyOCRWhitelist))
			recognizer = engine
		}
	}

	win := mainwindow.New(a, appState, appPrefs, recognizer)

	// Handle command line arguments: image, then optional annotations file
	if len(os.Args) > 1 {
		win.OpenImage(os.Args[1])
	}
	if len(os.Args) > 2 {
		if err := appState.LoadAnnotations(os.Args[2]); err != nil {
			log.Printf("Failed to load annotations %s: %v", os.Args[2], err)
		}
	}

	win.ShowAndRun()

	if err := appPrefs.Save(); err != nil {
		log.Printf("Failed to save preferences: %v", err)
	}
}

// interactionOptions reads the interaction thresholds from preferences.
func interactionOptions(p *prefs.Prefs) interaction.Options {
	opts := interaction.DefaultOptions()
	opts.JitterThreshold = p.PositiveFloat(prefs.KeyJitterThreshold, opts.JitterThreshold)
	return opts
}
