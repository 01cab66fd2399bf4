// Command imgsearch builds a colour-histogram index over a directory of images
// and ranks it against query images.
//
//	imgsearch build ./photos
//	imgsearch search query.jpg --top 5
//	imgsearch watch ./photos
package main

import "os"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
