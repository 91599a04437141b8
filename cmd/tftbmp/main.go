package main

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"io"
	"io/ioutil"
	"log"
	"net/http"
	"os"

	"github.com/bodgit/tftbmp"
	"github.com/bodgit/tftbmp/bmp"
	"github.com/bodgit/tftbmp/display"
	"github.com/bodgit/tftbmp/server"
	"github.com/bodgit/tftbmp/storage"
	"github.com/urfave/cli/v2"
	_ "golang.org/x/image/bmp"
)

const (
	defaultWidth  = 160
	defaultHeight = 128
	defaultListen = ":8080"
)

func init() {
	cli.VersionFlag = &cli.BoolFlag{
		Name:    "version",
		Aliases: []string{"V"},
		Usage:   "print the version",
	}
}

func newLogger(c *cli.Context) *log.Logger {
	logger := log.New(ioutil.Discard, "", 0)
	if c.Bool("verbose") {
		logger.SetOutput(os.Stderr)
	}
	return logger
}

type store interface {
	storage.Storage
	storage.Lister
	io.Closer
}

type dirStore struct {
	storage.Dir
}

func (dirStore) Close() error {
	return nil
}

// openStore returns the sqlite store if --db is set, otherwise the
// directory named by --root.
func openStore(c *cli.Context) (store, error) {
	if file := c.String("db"); file != "" {
		return storage.NewDB(file)
	}
	return dirStore{storage.Dir(c.String("root"))}, nil
}

func newFramebuffer(c *cli.Context) (*display.Framebuffer, error) {
	w, h := c.Int("width"), c.Int("height")
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("invalid display size %dx%d", w, h)
	}
	return display.NewFramebuffer(w, h), nil
}

func info(c *cli.Context) error {
	if c.NArg() < 1 {
		cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
	}

	f, err := os.Open(c.Args().First())
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	defer f.Close()

	h, err := bmp.ReadHeader(f)
	if err != nil {
		return cli.NewExitError(err, 1)
	}

	order := "bottom-up"
	if h.TopDown() {
		order = "top-down"
	}

	fmt.Printf("size:        %dx%d\n", h.Width, h.Rows())
	fmt.Printf("encoding:    %s (%d-bit, compression %d)\n", h.Encoding, h.BitDepth, h.Compression)
	fmt.Printf("scan order:  %s\n", order)
	fmt.Printf("row stride:  %d\n", h.Stride())
	fmt.Printf("data offset: %d\n", h.DataOffset)
	fmt.Printf("header size: %d\n", h.HeaderSize)

	if h.Encoding == bmp.Indexed1 {
		p, ok := bmp.ReadPalette(f, h, display.PackerFunc(display.RGB565))
		source := "file"
		if !ok {
			source = "default"
		}
		fmt.Printf("palette:     %04x %04x (%s)\n", p[0], p[1], source)
	}

	return nil
}

func draw(c *cli.Context) error {
	if c.NArg() < 1 {
		cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
	}

	logger := newLogger(c)

	s, err := openStore(c)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	defer s.Close()

	fb, err := newFramebuffer(c)
	if err != nil {
		return cli.NewExitError(err, 1)
	}

	r := tftbmp.New(s, fb, c.Int("max-width"), logger)
	if err := r.Draw(c.Args().First(), c.Int("x"), c.Int("y")); err != nil {
		return cli.NewExitError(err, 1)
	}

	out, err := os.Create(c.String("out"))
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	defer out.Close()

	if err := png.Encode(out, fb); err != nil {
		return cli.NewExitError(err, 1)
	}

	logger.Printf("Wrote %d pixels to \"%s\"\n", fb.Written(), c.String("out"))

	return nil
}

func convert(c *cli.Context) error {
	if c.NArg() < 2 {
		cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
	}

	in, err := os.Open(c.Args().Get(0))
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	defer in.Close()

	m, format, err := image.Decode(in)
	if err != nil {
		return cli.NewExitError(err, 1)
	}

	out, err := os.Create(c.Args().Get(1))
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	defer out.Close()

	if err := bmp.Encode(out, m, &bmp.Options{
		Depth:   c.Int("depth"),
		TopDown: c.Bool("top-down"),
		Dither:  c.Bool("dither"),
	}); err != nil {
		return cli.NewExitError(err, 1)
	}

	newLogger(c).Printf("Converted %s %dx%d to %d-bit BMP\n", format, m.Bounds().Dx(), m.Bounds().Dy(), c.Int("depth"))

	return nil
}

func importDir(c *cli.Context) error {
	if c.NArg() < 1 {
		cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
	}

	if c.String("db") == "" {
		return cli.NewExitError("import requires --db", 1)
	}

	db, err := storage.NewDB(c.String("db"))
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	defer db.Close()

	if err := tftbmp.Import(db, c.Args().First(), newLogger(c)); err != nil {
		return cli.NewExitError(err, 1)
	}

	return nil
}

func serve(c *cli.Context) error {
	logger := newLogger(c)

	s, err := openStore(c)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	defer s.Close()

	fb, err := newFramebuffer(c)
	if err != nil {
		return cli.NewExitError(err, 1)
	}

	logger.Printf("Listening on %s\n", c.String("listen"))
	if err := http.ListenAndServe(c.String("listen"), server.New(s, fb, c.Int("max-width"), logger)); err != nil {
		return cli.NewExitError(err, 1)
	}

	return nil
}

func main() {
	app := cli.NewApp()

	app.Name = "tftbmp"
	app.Usage = "Draw BMP files onto small TFT displays"
	app.Version = "1.0.0"

	cwd, err := os.Getwd()
	if err != nil {
		log.Fatal(err)
	}

	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "root",
			EnvVars: []string{"TFTBMP_ROOT"},
			Value:   cwd,
			Usage:   "directory served as the storage root",
		},
		&cli.StringFlag{
			Name:    "db",
			EnvVars: []string{"TFTBMP_DB"},
			Usage:   "path to database, used instead of --root",
		},
		&cli.IntFlag{
			Name:    "width",
			EnvVars: []string{"TFTBMP_WIDTH"},
			Value:   defaultWidth,
			Usage:   "display width in pixels",
		},
		&cli.IntFlag{
			Name:    "height",
			EnvVars: []string{"TFTBMP_HEIGHT"},
			Value:   defaultHeight,
			Usage:   "display height in pixels",
		},
		&cli.IntFlag{
			Name:    "max-width",
			EnvVars: []string{"TFTBMP_MAX_WIDTH"},
			Value:   tftbmp.DefaultMaxWidth,
			Usage:   "widest scanline decoded, wider images are truncated",
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			Usage:   "increase verbosity",
		},
	}

	app.Commands = []*cli.Command{
		{
			Name:      "info",
			Usage:     "Print the header of a BMP file",
			ArgsUsage: "FILE",
			Action:    info,
		},
		{
			Name:        "draw",
			Usage:       "Draw a stored BMP and save the display as PNG",
			Description: "FILE is a path within the storage root, such as /signs/stop.bmp",
			ArgsUsage:   "FILE",
			Flags: []cli.Flag{
				&cli.IntFlag{
					Name:  "x",
					Usage: "column of the top-left corner",
				},
				&cli.IntFlag{
					Name:  "y",
					Usage: "row of the top-left corner",
				},
				&cli.StringFlag{
					Name:  "out",
					Value: "screen.png",
					Usage: "PNG file to write",
				},
			},
			Action: draw,
		},
		{
			Name:      "convert",
			Usage:     "Convert an image to a BMP the display can draw",
			ArgsUsage: "INPUT OUTPUT",
			Flags: []cli.Flag{
				&cli.IntFlag{
					Name:  "depth",
					Value: 24,
					Usage: "bits per pixel, one of 1, 16 or 24",
				},
				&cli.BoolFlag{
					Name:  "top-down",
					Usage: "store rows top to bottom",
				},
				&cli.BoolFlag{
					Name:  "dither",
					Usage: "dither when reducing to 1 bit",
				},
			},
			Action: convert,
		},
		{
			Name:      "import",
			Usage:     "Import a directory of BMP files into the database",
			ArgsUsage: "DIRECTORY",
			Action:    importDir,
		},
		{
			Name:  "serve",
			Usage: "Serve the storage browser and display over HTTP",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:    "listen",
					EnvVars: []string{"TFTBMP_LISTEN"},
					Value:   defaultListen,
					Usage:   "address to listen on",
				},
			},
			Action: serve,
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
