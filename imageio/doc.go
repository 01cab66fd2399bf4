// Package imageio enumerates and decodes the images fed into a feature build.
//
// A Source lists image identifiers and a Loader turns an identifier into
// decoded pixels. The default FileLoader decodes JPEG, PNG and GIF through the
// standard library and BMP, TIFF and WebP through golang.org/x/image:
//
//	src := imageio.NewDirSource("./photos")
//	paths, _ := src.Images(ctx)
//	img, err := imageio.NewFileLoader().Load(ctx, paths[0])
//
// Loader failures are reported as *DecodeError values matching
// ErrDecodeFailure.
package imageio
