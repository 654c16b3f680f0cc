// Command qtffinfo prints a human-readable summary of a QuickTime movie
// file's structure: brand, duration, and a line per track.
package main

import (
	"flag"
	"log"
	"os"
	"time"

	"ktkr.us/pkg/fmtutil"
	"ktkr.us/pkg/qtff"
	"ktkr.us/pkg/qtff/atomio"
)

var lenientZero = flag.Bool("lenient-zero-size", false, "accept a top-level atom with size 0 as \"rest of stream\"")

func main() {
	log.SetFlags(0)
	flag.Parse()

	if flag.NArg() < 1 {
		log.Fatalf("usage: %s <movie filename>", os.Args[0])
	}

	f, err := os.Open(flag.Arg(0))
	if err != nil {
		log.Fatal(err)
	}
	defer f.Close()

	var opts []qtff.Option
	if *lenientZero {
		opts = append(opts, qtff.WithLenientZeroSize())
	}

	mf, err := qtff.ReadFile(atomio.NewFileStream(f), opts...)
	if err != nil {
		if e, ok := qtff.AsError(err); ok {
			log.Fatalf("%s: %s at offset %d (%s)", e.Kind, e.Type, e.Offset, e)
		}
		log.Fatal(err)
	}

	if mf.FileType != nil {
		log.Printf("brand: %s (%d compatible)", mf.FileType.MajorBrand, len(mf.FileType.CompatibleBrands))
	}

	mh := mf.Movie.MovieHeader
	duration := time.Duration(float64(mh.Duration) / float64(mh.TimeScale) * float64(time.Second))
	log.Printf("duration: %s, %d track(s), next track id %d", fmtutil.HMS(duration), len(mf.Movie.Tracks), mh.NextTrackID)

	for i, t := range mf.Movie.Tracks {
		kind := "base"
		var sampleTable qtff.SampleTable
		switch {
		case t.Media.MediaInformation.Video != nil:
			kind = "video"
			sampleTable = t.Media.MediaInformation.Video.SampleTable
		case t.Media.MediaInformation.Sound != nil:
			kind = "sound"
			sampleTable = t.Media.MediaInformation.Sound.SampleTable
		default:
			sampleTable = t.Media.MediaInformation.Base.SampleTable
		}
		var samples uint32
		for _, e := range sampleTable.TimeToSample.Entries {
			samples += e.SampleCount
		}
		log.Printf("track %d: id=%d kind=%s duration=%d samples=%d", i, t.TrackHeader.TrackID, kind, t.TrackHeader.Duration, samples)
	}

	if len(mf.MovieData) > 0 {
		var total int
		for _, md := range mf.MovieData {
			total += len(md.Data)
		}
		log.Printf("mdat: %d atom(s), %d bytes total", len(mf.MovieData), total)
	}
}
