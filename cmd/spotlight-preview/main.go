package main

import (
	"context"
	"flag"
	"fmt"
	"image"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/ivlev/spotlight/internal/analyzer"
	"github.com/ivlev/spotlight/internal/config"
	"github.com/ivlev/spotlight/internal/preview"
	"github.com/ivlev/spotlight/internal/renderer"
	"github.com/ivlev/spotlight/internal/scroll"
	"github.com/ivlev/spotlight/internal/source"
	"github.com/ivlev/spotlight/internal/system"
	"github.com/ivlev/spotlight/internal/text"
	"github.com/ivlev/spotlight/internal/timeline"
)

// wheelStep is how many pixels one wheel notch scrolls
const wheelStep = 120

// Game shows the scene at window resolution and scrolls it with the mouse wheel or keys
type Game struct {
	viewer   *preview.Viewer
	store    *preview.SessionStore
	key      string
	input    string
	showInfo bool
	canvas   *ebiten.Image
}

func (g *Game) Update() error {
	_, dy := ebiten.Wheel()
	if dy != 0 {
		g.viewer.Scroll(-dy * wheelStep)
	}

	page := float64(g.viewer.Size().Y)
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyPageDown), inpututil.IsKeyJustPressed(ebiten.KeySpace):
		g.viewer.Scroll(page)
	case inpututil.IsKeyJustPressed(ebiten.KeyPageUp):
		g.viewer.Scroll(-page)
	case inpututil.IsKeyJustPressed(ebiten.KeyHome):
		g.viewer.JumpTo(0)
	case inpututil.IsKeyJustPressed(ebiten.KeyEnd):
		g.viewer.JumpTo(scroll.PinDistance(page))
	case inpututil.IsKeyJustPressed(ebiten.KeyTab):
		g.showInfo = !g.showInfo
	case inpututil.IsKeyJustPressed(ebiten.KeyQ), inpututil.IsKeyJustPressed(ebiten.KeyEscape):
		return ebiten.Termination
	}

	g.viewer.Update(1 / float64(ebiten.TPS()))
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	frame := g.viewer.Render()
	size := frame.Bounds().Size()
	if g.canvas == nil || g.canvas.Bounds().Size() != size {
		if g.canvas != nil {
			g.canvas.Deallocate()
		}
		g.canvas = ebiten.NewImage(size.X, size.Y)
	}
	g.canvas.WritePixels(frame.Pix)
	screen.DrawImage(g.canvas, nil)

	if g.showInfo {
		info := fmt.Sprintf("progress: %.4f\nscroll: %.0f\nsize: %dx%d\nTPS: %.0f", g.viewer.Progress(), g.viewer.ScrollY(), size.X, size.Y, ebiten.ActualTPS())
		ebitenutil.DebugPrintAt(screen, info, 10, 10)
	}
}

// Layout follows the window size so the timeline sees real viewport changes
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	size := image.Pt(max(outsideWidth, 1), max(outsideHeight, 1))
	if err := g.viewer.Resize(size); err != nil {
		log.Printf("[!] Ошибка пересчета раскладки: %v", err)
	}
	return size.X, size.Y
}

func (g *Game) save() {
	size := g.viewer.Size()
	sess := preview.Session{Input: g.input, Width: size.X, Height: size.Y, Progress: g.viewer.Progress()}
	if err := g.store.Save(g.key, sess); err != nil {
		log.Printf("[!] Не удалось сохранить сессию: %v", err)
	}
}

func main() {
	configPtr := flag.String("config", "", "Путь к YAML-конфигу")
	inputPtr := flag.String("input", "", "Путь к PDF или папке с изображениями (по умолчанию: самый свежий файл в input/pdf/)")
	coverPtr := flag.String("cover", "", "Изображение обложки")
	freshPtr := flag.Bool("fresh", false, "Не восстанавливать сохраненную позицию")
	flag.Parse()

	cfg, err := config.Load(*configPtr)
	if err != nil {
		log.Fatalf("[-] Ошибка загрузки конфига: %v", err)
	}
	if err := config.ApplyEnv(cfg); err != nil {
		log.Fatalf("[-] Ошибка переменных окружения: %v", err)
	}
	if *inputPtr != "" {
		cfg.InputPath = *inputPtr
	}
	if *coverPtr != "" {
		cfg.CoverPath = *coverPtr
	}
	if err := cfg.ApplyPreset(); err != nil {
		log.Fatalf("[-] %v", err)
	}

	if cfg.InputPath == "" {
		latest, err := system.FindLatestPDF("input/pdf")
		if err != nil {
			log.Fatalf("[-] Ошибка: %v. Положите PDF в input/pdf/", err)
		}
		cfg.InputPath = latest
		fmt.Printf("[*] Выбран файл: %s\n", cfg.InputPath)
	}

	images, cover := loadImages(cfg)

	store := preview.OpenSessionStore(preview.AppName)
	key := preview.SessionKey(cfg.InputPath)
	width, height := cfg.Width, cfg.Height
	progress := 0.0
	if !*freshPtr {
		sess, ok, err := store.Load(key)
		if err != nil {
			log.Printf("[!] Сессия повреждена, используются значения по умолчанию: %v", err)
		} else if ok {
			sess = sess.Sanitize(cfg.Width, cfg.Height)
			width, height, progress = sess.Width, sess.Height, sess.Progress
			fmt.Printf("[*] Восстановлена позиция %.3f\n", progress)
		}
	}

	face, err := text.NewFace(cfg.FontSize)
	if err != nil {
		log.Fatalf("[-] Ошибка шрифта: %v", err)
	}
	defer face.Close()

	opts := renderer.DefaultOptions()
	opts.Perspective = cfg.Perspective
	opts.ImageSize = cfg.ImageSize
	if opts.Background, err = renderer.ParseHexColor(cfg.Background); err != nil {
		log.Fatalf("[-] %v", err)
	}
	if opts.TextColor, err = renderer.ParseHexColor(cfg.TextColor); err != nil {
		log.Fatalf("[-] %v", err)
	}

	scene := renderer.NewScene(image.Pt(width, height), images, cover, cfg.IntroText, cfg.OutroText, face, opts)
	viewer, err := preview.NewViewer(scene, cfg.Smoothing)
	if err != nil {
		log.Fatalf("[-] Ошибка конфигурации таймлайна: %v", err)
	}
	viewer.JumpTo(progress * scroll.PinDistance(float64(height)))

	game := &Game{viewer: viewer, store: store, key: key, input: cfg.InputPath}

	ebiten.SetWindowSize(width, height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowTitle("Spotlight - " + cfg.InputPath)

	if err := ebiten.RunGame(game); err != nil {
		log.Fatal(err)
	}
	game.save()
}

func loadImages(cfg *config.Config) ([]image.Image, image.Image) {
	src, err := source.Open(cfg.InputPath, cfg.DPI)
	if err != nil {
		log.Fatalf("[-] Ошибка инициализации источника: %v", err)
	}
	defer src.Close()

	limit := src.Count()
	if limit > timeline.MaxImages {
		if !cfg.Truncate {
			log.Fatalf("[-] %d изображений: %v", limit, timeline.ErrTooManyImages)
		}
		limit = timeline.MaxImages
	}
	images, err := source.LoadAll(context.Background(), src, limit, cfg.Workers)
	if err != nil {
		log.Fatalf("[-] Ошибка загрузки изображений: %v", err)
	}

	detector, err := analyzer.NewDetector(cfg.Trim)
	if err != nil {
		log.Fatalf("[-] %v", err)
	}
	for i, img := range images {
		if images[i], err = analyzer.Trim(img, detector, cfg.TrimPadding); err != nil {
			log.Fatalf("[-] Ошибка обрезки изображения %d: %v", i, err)
		}
	}

	if cfg.CoverPath == "" {
		return images, nil
	}
	coverSrc, err := source.Open(cfg.CoverPath, cfg.DPI)
	if err != nil {
		log.Fatalf("[-] Ошибка открытия обложки: %v", err)
	}
	defer coverSrc.Close()
	cover, err := coverSrc.Image(0)
	if err != nil {
		log.Fatalf("[-] Ошибка загрузки обложки: %v", err)
	}
	return images, cover
}
