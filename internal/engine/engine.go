package engine

import (
	"context"
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/image/draw"
	"golang.org/x/sync/errgroup"

	"github.com/ivlev/spotlight/internal/analyzer"
	"github.com/ivlev/spotlight/internal/config"
	"github.com/ivlev/spotlight/internal/director"
	"github.com/ivlev/spotlight/internal/effects"
	"github.com/ivlev/spotlight/internal/renderer"
	"github.com/ivlev/spotlight/internal/source"
	"github.com/ivlev/spotlight/internal/system"
	"github.com/ivlev/spotlight/internal/text"
	"github.com/ivlev/spotlight/internal/timeline"
	"github.com/ivlev/spotlight/internal/video"
)

type VideoProject struct {
	Config  *config.Config
	Source  source.Source
	Encoder video.VideoEncoder
	Effect  effects.Effect
	tempDir string

	images []image.Image
	cover  image.Image
	opts   renderer.Options
}

func NewVideoProject(cfg *config.Config, src source.Source, ve video.VideoEncoder, eff effects.Effect) *VideoProject {
	return &VideoProject{
		Config:  cfg,
		Source:  src,
		Encoder: ve,
		Effect:  eff,
	}
}

// Segment is a contiguous run of frames encoded into one file
type Segment struct {
	Index int
	First int
	Count int
}

// SplitFrames cuts total frames into segments of at most size frames
func SplitFrames(total, size int) []Segment {
	if total <= 0 || size <= 0 {
		return nil
	}
	segments := make([]Segment, 0, (total+size-1)/size)
	for first := 0; first < total; first += size {
		count := size
		if first+count > total {
			count = total - first
		}
		segments = append(segments, Segment{Index: len(segments), First: first, Count: count})
	}
	return segments
}

func (p *VideoProject) Run(ctx context.Context) error {
	startTime := time.Now()

	if p.Config.DumpPath != "" {
		return p.handleDump()
	}

	if err := p.loadAssets(ctx); err != nil {
		return err
	}

	script, err := p.loadScript()
	if err != nil {
		return err
	}

	dir := director.NewDirector(float64(p.Config.Height), p.Config.FPS)
	dir.Smoothing = p.Config.Smoothing
	progress := dir.Sample(script)
	if len(progress) == 0 {
		return fmt.Errorf("сценарий не содержит кадров (длительность %.2fs)", script.Duration)
	}

	p.tempDir, err = os.MkdirTemp("", "spotlight_")
	if err != nil {
		return err
	}
	defer os.RemoveAll(p.tempDir)

	segments := SplitFrames(len(progress), p.Config.SegmentFrames)

	fmt.Println("--- [PROJECT: SPOTLIGHT] ---")
	fmt.Printf("[*] Изображений: %d | Обложка: %v | Кадров: %d | Сегментов: %d\n", len(p.images), p.cover != nil, len(progress), len(segments))
	fmt.Printf("[*] Разрешение: %dx%d @ %d FPS | Длительность: %.2fs\n", p.Config.Width, p.Config.Height, p.Config.FPS, script.Duration)
	fmt.Println("-----------------------------")

	renderStart := time.Now()
	results := make([]string, len(segments))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.Config.Workers)
	for _, seg := range segments {
		g.Go(func() error {
			path := filepath.Join(p.tempDir, fmt.Sprintf("s%d.mp4", seg.Index))
			if err := p.renderSegment(gctx, seg, len(segments), progress, path); err != nil {
				return fmt.Errorf("сегмент %d: %w", seg.Index, err)
			}
			results[seg.Index] = path
			fmt.Printf("[>] Ready: %d/%d\n", seg.Index+1, len(segments))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	renderTime := time.Since(renderStart)

	fmt.Println("[*] Сборка финального видео...")
	concatStart := time.Now()
	if err := p.Encoder.Concatenate(ctx, results, p.Config.OutputVideo, p.tempDir, *p.Config); err != nil {
		return fmt.Errorf("ошибка сборки финального видео: %w", err)
	}

	if p.Config.ShowStats {
		p.report(len(progress), time.Since(startTime), renderTime, time.Since(concatStart))
	}

	return nil
}

func (p *VideoProject) loadAssets(ctx context.Context) error {
	count := p.Source.Count()
	if count == 0 {
		return fmt.Errorf("источник не содержит изображений")
	}
	if count > timeline.MaxImages {
		if !p.Config.Truncate {
			return fmt.Errorf("%d изображений: %w (используйте -truncate)", count, timeline.ErrTooManyImages)
		}
		fmt.Printf("[!] Изображений %d, используются первые %d\n", count, timeline.MaxImages)
		count = timeline.MaxImages
	}

	images, err := source.LoadAll(ctx, p.Source, count, p.Config.Workers)
	if err != nil {
		return fmt.Errorf("ошибка загрузки изображений: %w", err)
	}
	p.images = images

	if err := p.trimImages(ctx); err != nil {
		return err
	}

	if p.Config.CoverPath != "" {
		cover, err := source.Open(p.Config.CoverPath, p.Config.DPI)
		if err != nil {
			return fmt.Errorf("ошибка открытия обложки: %w", err)
		}
		defer cover.Close()
		if cover.Count() == 0 {
			return fmt.Errorf("обложка %s пуста", p.Config.CoverPath)
		}
		if p.cover, err = cover.Image(0); err != nil {
			return fmt.Errorf("ошибка загрузки обложки: %w", err)
		}
	}

	p.opts, err = p.renderOptions()
	return err
}

// trimImages cuts page margins so cards show content only
func (p *VideoProject) trimImages(ctx context.Context) error {
	detector, err := analyzer.NewDetector(p.Config.Trim)
	if err != nil || detector == nil {
		return err
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(p.Config.Workers)
	for i, img := range p.images {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			trimmed, err := analyzer.Trim(img, detector, p.Config.TrimPadding)
			if err != nil {
				return fmt.Errorf("обрезка изображения %d: %w", i, err)
			}
			p.images[i] = trimmed
			return nil
		})
	}
	return g.Wait()
}

func (p *VideoProject) renderOptions() (renderer.Options, error) {
	opts := renderer.DefaultOptions()
	opts.Perspective = p.Config.Perspective
	opts.ImageSize = p.Config.ImageSize
	opts.Interpolator = draw.ApproxBiLinear

	var err error
	if opts.Background, err = renderer.ParseHexColor(p.Config.Background); err != nil {
		return opts, err
	}
	if opts.TextColor, err = renderer.ParseHexColor(p.Config.TextColor); err != nil {
		return opts, err
	}
	return opts, nil
}

func (p *VideoProject) loadScript() (*director.Script, error) {
	if p.Config.ScriptPath == "" {
		return director.DefaultScript(p.Config.TotalDuration), nil
	}

	script, err := director.ReadScript(p.Config.ScriptPath)
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения сценария: %w", err)
	}
	fmt.Printf("[*] Используется сценарий: %s\n", p.Config.ScriptPath)

	// Если общая длительность уже задана (например, из аудио), растягиваем сценарий под неё
	if p.Config.AudioPath != "" && p.Config.TotalDuration > 0 && script.Duration > 0 {
		scale := p.Config.TotalDuration / script.Duration
		fmt.Printf("[*] Сценарий масштабирован под аудио (x%.3f)\n", scale)
		script.Stretch(p.Config.TotalDuration)
	}
	return script, nil
}

// renderSegment owns one Driver and one Scene: the timeline is evaluated
// single-threaded per segment while segments run in parallel.
func (p *VideoProject) renderSegment(ctx context.Context, seg Segment, total int, progress []float64, path string) error {
	face, err := text.NewFace(p.Config.FontSize)
	if err != nil {
		return fmt.Errorf("шрифт: %w", err)
	}
	defer face.Close()

	size := image.Pt(p.Config.Width, p.Config.Height)
	scene := renderer.NewScene(size, p.images, p.cover, p.Config.IntroText, p.Config.OutroText, face, p.opts)
	driver := timeline.NewDriver()
	if err := scene.Bind(driver); err != nil {
		return err
	}

	params := config.SegmentParams{
		Width:        p.Config.Width,
		Height:       p.Config.Height,
		FPS:          p.Config.FPS,
		FirstFrame:   seg.First,
		FrameCount:   seg.Count,
		TotalFrames:  len(progress),
		FadeDuration: p.Config.FadeDuration,
		SegmentIndex: seg.Index,
		SegmentCount: total,
	}
	params.Filter = p.Effect.GenerateFilter(params)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	frames := make(chan *image.RGBA, 2)
	errc := make(chan error, 1)
	go func() {
		err := p.Encoder.EncodeSegment(ctx, frames, path, params, p.Config.VideoEncoder, p.Config.Quality)
		if err != nil {
			cancel()
		}
		errc <- err
	}()

	rect := image.Rectangle{Max: size}
	for i := seg.First; i < seg.First+seg.Count; i++ {
		frame := system.GetFrame(rect, p.opts.Background)
		driver.OnProgress(progress[i])
		scene.Render(frame)
		if p.Config.Debug {
			label := fmt.Sprintf("frame=%d p=%.4f", i, progress[i])
			if err := renderer.Stamp(frame, label, size.Y/6); err != nil {
				system.PutFrame(frame)
				close(frames)
				<-errc
				return err
			}
		}

		select {
		case frames <- frame:
		case <-ctx.Done():
			system.PutFrame(frame)
			close(frames)
			if err := <-errc; err != nil {
				return err
			}
			return ctx.Err()
		}
	}
	close(frames)

	return <-errc
}

func (p *VideoProject) handleDump() error {
	fmt.Println("[*] Режим выгрузки состояний таймлайна...")

	images := timeline.MaxImages
	if p.Source != nil {
		images = min(p.Source.Count(), timeline.MaxImages)
	}
	vp := timeline.Viewport{Width: float64(p.Config.Width), Height: float64(p.Config.Height)}

	dump, err := director.Dump(vp, images, len(text.Split(p.Config.IntroText)), len(text.Split(p.Config.OutroText)), p.Config.DumpSteps)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(p.Config.DumpPath), 0755); err != nil {
		return err
	}
	if err := director.WriteStateDump(dump, p.Config.DumpPath); err != nil {
		return err
	}

	fmt.Printf("[+++] Успех! Состояния сохранены: %s\n", p.Config.DumpPath)
	return nil
}

func (p *VideoProject) report(frames int, total, render, concat time.Duration) {
	fps := float64(frames) / total.Seconds()
	report := fmt.Sprintf(
		"--- [PERFORMANCE REPORT] ---\n"+
			"Build: %s\n"+
			"Total Time: %.2fs\n"+
			"Render+Encode: %.2fs\n"+
			"Concatenation: %.2fs\n"+
			"Effective FPS: %.2f\n",
		p.Config.BuildVersion, total.Seconds(), render.Seconds(), concat.Seconds(), fps,
	)

	stats, err := system.CollectStats(200 * time.Millisecond)
	if err == nil {
		report += stats.String() + "\n"
	} else {
		fmt.Printf("[!] Не удалось собрать статистику: %v\n", err)
	}
	fmt.Print(report + "----------------------------\n")

	logEntry := fmt.Sprintf("[%s] Build: %s | Input: %s | Frames: %d | Total: %.2fs | Render: %.2fs | FPS: %.2f\n",
		time.Now().Format("2006-01-02 15:04:05"),
		p.Config.BuildVersion,
		filepath.Base(p.Config.InputPath),
		frames,
		total.Seconds(),
		render.Seconds(),
		fps,
	)

	if err := appendBenchmark(BenchmarkLog, logEntry); err != nil {
		fmt.Printf("[!] Не удалось записать %s: %v\n", BenchmarkLog, err)
	}
}

// BenchmarkLog collects one line per rendered video
var BenchmarkLog = "benchmark.log"

func appendBenchmark(path, entry string) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	if _, err := f.WriteString(entry); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// IsConfigFault reports whether err comes from a timeline configuration fault
func IsConfigFault(err error) bool {
	return errors.Is(err, timeline.ErrTooManyImages) || errors.Is(err, timeline.ErrInvalidViewport)
}
