package main

import (
	"flag"
	"fmt"
	"log"

	"k8s.io/klog/v2"

	"github.com/fsnotify/fsnotify"
	"github.com/photark/photark/pkg/photark"
)

var (
	inDir     = flag.String("in", "", "Location of input directory")
	storage   = flag.String("storage", "", "Location of the gallery storage root")
	quality   = flag.Int("quality", 85, "JPEG quality for derivatives")
	mediumMax = flag.Int("medium-max", 1920, "Maximum dimension of the medium derivative")
	bigMax    = flag.Int("big-max", 0, "Maximum dimension of the big derivative (0 keeps the original)")
	watchFlag = flag.Bool("watch", false, "watch for changes to inDir and re-ingest")
)

func main() {
	klog.InitFlags(nil)
	flag.Parse()

	if *inDir == "" {
		klog.Exitf("--in is a required flag")
	}

	if *storage == "" {
		klog.Exitf("--storage is a required flag")
	}

	c := photark.DefaultConfig()
	c.StorageRoot = *storage
	c.Quality = *quality
	c.MediumMaxDimension = *mediumMax
	c.BigMaxDimension = *bigMax

	if err := ingest(c, *inDir); err != nil {
		klog.Exitf("ingest failed: %v", err)
	}

	if *watchFlag {
		if err := watch(c, *inDir); err != nil {
			klog.Exitf("watch failed: %v", err)
		}
	}
}

// ingest processes every image under inDir. Failures are isolated per
// source file: a bad photo is logged and skipped, never aborts the batch.
func ingest(c *photark.Config, inDir string) error {
	srcs, err := photark.Find(inDir)
	if err != nil {
		return fmt.Errorf("find: %w", err)
	}

	b := photark.NewBuilder(c)
	for _, s := range srcs {
		rec, err := b.Build(s.Path, s.AlbumID)
		if err != nil {
			klog.Errorf("build failed for %s: %v", s.Path, err)
			continue
		}

		if err := photark.Store(c, rec); err != nil {
			klog.Errorf("store failed for %s: %v", s.Path, err)
		}
		rec.Cleanup()

		klog.Infof("ingested %s as %s (%dx%d, %s)", s.Path, rec.ID, rec.Width, rec.Height, rec.Checksum)
	}

	return nil
}

// watch watches inDir for changes and re-ingests
func watch(c *photark.Config, inDir string) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("new watcher: %w", err)
	}
	defer w.Close()

	go func() {
		for {
			select {
			case event, ok := <-w.Events:
				if !ok {
					return
				}
				log.Println("event:", event)
				if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
					if err := ingest(c, inDir); err != nil {
						klog.Errorf("ingest failed: %v", err)
					}
				}
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				log.Println("error:", err)
			}
		}
	}()

	if err := w.Add(inDir); err != nil {
		return fmt.Errorf("add %s: %w", inDir, err)
	}

	klog.Infof("watching %s ...", inDir)
	<-make(chan struct{})
	return nil
}
