package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/ivlev/spotlight/internal/config"
	"github.com/ivlev/spotlight/internal/director"
	"github.com/ivlev/spotlight/internal/effects"
	"github.com/ivlev/spotlight/internal/engine"
	"github.com/ivlev/spotlight/internal/source"
	"github.com/ivlev/spotlight/internal/system"
	"github.com/ivlev/spotlight/internal/video"
)

var buildVersion = "dev"

func main() {
	// Увеличиваем лимиты системы (для macOS/Linux)
	if limit, err := system.RaiseFileLimit(2048); err != nil {
		log.Printf("[!] Не удалось изменить лимит файлов: %v", err)
	} else {
		fmt.Printf("[*] Лимит открытых файлов: %d\n", limit)
	}

	// Создаем нужные директории, если их нет
	dirs := []string{"input/audio", "input/pdf", director.ScriptsDir, "output"}
	for _, d := range dirs {
		os.MkdirAll(d, 0755)
	}

	def := config.Default()

	configPtr := flag.String("config", "", "Путь к YAML-конфигу (значения флагов имеют приоритет)")
	flag.String("input", "", "Путь к PDF или папке с изображениями (по умолчанию: самый свежий файл в input/pdf/)")
	flag.String("cover", "", "Изображение обложки (необязательно)")
	flag.String("output", "", "Путь к видео (если пусто, генерируется автоматически в output/)")
	flag.String("intro", def.IntroText, "Текст вступительного заголовка")
	flag.String("outro", def.OutroText, "Текст финального заголовка")
	flag.String("script", "", "Сценарий прокрутки YAML (latest - самый свежий в input/scripts/)")
	genScriptPtr := flag.Bool("gen-script", false, "Сохранить сценарий по умолчанию в input/scripts/ и выйти")
	flag.Float64("duration", def.TotalDuration, "Общая длительность видео (сек)")
	flag.Int("width", def.Width, "Ширина")
	flag.Int("height", def.Height, "Высота")
	flag.Int("fps", def.FPS, "FPS")
	flag.Int("workers", def.Workers, "Потоки")
	flag.Int("segment-frames", def.SegmentFrames, "Кадров в одном сегменте")
	flag.Float64("smoothing", def.Smoothing, "Инерция прокрутки (0 - без сглаживания, 1 - мгновенно)")
	flag.Float64("perspective", def.Perspective, "Расстояние перспективы (px)")
	flag.Float64("image-size", def.ImageSize, "Базовая ширина изображения (px)")
	flag.Float64("font-size", def.FontSize, "Размер шрифта заголовков")
	flag.String("background", def.Background, "Цвет фона (#rrggbb)")
	flag.String("text-color", def.TextColor, "Цвет текста (#rrggbb)")
	flag.Int("dpi", def.DPI, "DPI")
	flag.Float64("fade", def.FadeDuration, "Длительность затемнения в начале и конце (сек)")
	flag.String("audio", "", "Путь к аудио (по умолчанию: самый свежий файл в input/audio/)")
	audioSyncPtr := flag.Bool("audio-sync", true, "Синхронизировать длительность видео с аудио")
	flag.String("preset", "", "Пресет формата: 16:9, 9:16 (Shorts/TikTok), 4:5 (Instagram)")
	flag.String("encoder", "", "Кодек: libx264, h264_videotoolbox, h264_nvenc (по умолчанию: автоопределение)")
	flag.Int("quality", 0, "Качество видео (0 - авто, x264: CRF 1-51, VideoToolbox: битрейт = Q*100кбит/с)")
	flag.Bool("truncate", false, "Использовать первые 20 изображений вместо ошибки")
	flag.String("trim", "", "Обрезка полей страниц: none, edges")
	flag.Bool("debug", false, "Штамп с номером кадра и прогрессом")
	flag.Bool("stats", false, "Отчет о производительности")
	flag.String("dump", "", "Выгрузить состояния таймлайна в YAML и выйти")
	flag.Int("dump-steps", def.DumpSteps, "Количество шагов прогресса при выгрузке")

	flag.Parse()

	if *genScriptPtr {
		path := director.GenerateScriptPath()
		if err := director.WriteScript(director.DefaultScript(def.TotalDuration), path); err != nil {
			log.Fatalf("[-] Ошибка записи сценария: %v", err)
		}
		fmt.Printf("[+++] Сценарий сохранен: %s\n", path)
		return
	}

	cfg, err := config.Load(*configPtr)
	if err != nil {
		log.Fatalf("[-] Ошибка загрузки конфига: %v", err)
	}
	if err := config.ApplyEnv(cfg); err != nil {
		log.Fatalf("[-] Ошибка переменных окружения: %v", err)
	}
	if err := applyFlags(cfg); err != nil {
		log.Fatalf("[-] Ошибка флагов: %v", err)
	}
	if err := cfg.ApplyPreset(); err != nil {
		log.Fatalf("[-] %v", err)
	}
	cfg.BuildVersion = buildVersion

	if cfg.ScriptPath == "latest" {
		latest, err := director.FindLatestScript(director.ScriptsDir)
		if err != nil {
			log.Fatalf("[-] Ошибка: %v. Создайте сценарий через -gen-script", err)
		}
		cfg.ScriptPath = latest
	}

	var src source.Source
	if cfg.DumpPath == "" || cfg.InputPath != "" {
		if cfg.InputPath == "" {
			latest, err := system.FindLatestPDF("input/pdf")
			if err != nil {
				log.Fatalf("[-] Ошибка: %v. Положите PDF в input/pdf/", err)
			}
			cfg.InputPath = latest
			fmt.Printf("[*] Выбран файл: %s\n", cfg.InputPath)
		}

		src, err = source.Open(cfg.InputPath, cfg.DPI)
		if err != nil {
			log.Fatalf("[-] Ошибка инициализации источника: %v", err)
		}
		defer src.Close()
	}

	if cfg.DumpPath == "" {
		resolveAudio(cfg, *audioSyncPtr)

		if cfg.OutputVideo == "" {
			cfg.OutputVideo = outputName(cfg)
		}

		if !flagSet("encoder") && cfg.VideoEncoder == def.VideoEncoder {
			cfg.VideoEncoder = system.GetBestH264Encoder()
			if cfg.VideoEncoder != "libx264" {
				fmt.Printf("[*] Обнаружено аппаратное ускорение: %s\n", cfg.VideoEncoder)
			}
		}
		if cfg.Quality == 0 {
			cfg.Quality = system.DefaultQuality(cfg.VideoEncoder)
		}
	}

	if err := cfg.Validate(); err != nil {
		log.Fatalf("[-] Некорректная конфигурация: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	// Инициализируем зависимости
	ve := &video.FFmpegEncoder{}
	eff := &effects.DefaultEffect{}

	project := engine.NewVideoProject(cfg, src, ve, eff)
	if err := project.Run(ctx); err != nil {
		if engine.IsConfigFault(err) {
			log.Fatalf("[-] Ошибка конфигурации таймлайна: %v", err)
		}
		log.Fatalf("[-] Ошибка проекта: %v", err)
	}

	if cfg.DumpPath == "" {
		fmt.Printf("[+++] Успех! Результат: %s\n", cfg.OutputVideo)
	}
}

// applyFlags copies explicitly set flags over the file and env configuration
func applyFlags(cfg *config.Config) error {
	var err error
	flag.Visit(func(f *flag.Flag) {
		if err != nil {
			return
		}
		get := f.Value.(flag.Getter).Get()
		switch f.Name {
		case "input":
			cfg.InputPath = get.(string)
		case "cover":
			cfg.CoverPath = get.(string)
		case "output":
			cfg.OutputVideo = get.(string)
		case "intro":
			cfg.IntroText = get.(string)
		case "outro":
			cfg.OutroText = get.(string)
		case "script":
			cfg.ScriptPath = get.(string)
		case "duration":
			cfg.TotalDuration = get.(float64)
		case "width":
			cfg.Width = get.(int)
		case "height":
			cfg.Height = get.(int)
		case "fps":
			cfg.FPS = get.(int)
		case "workers":
			cfg.Workers = get.(int)
		case "segment-frames":
			cfg.SegmentFrames = get.(int)
		case "smoothing":
			cfg.Smoothing = get.(float64)
		case "perspective":
			cfg.Perspective = get.(float64)
		case "image-size":
			cfg.ImageSize = get.(float64)
		case "font-size":
			cfg.FontSize = get.(float64)
		case "background":
			cfg.Background = get.(string)
		case "text-color":
			cfg.TextColor = get.(string)
		case "dpi":
			cfg.DPI = get.(int)
		case "fade":
			cfg.FadeDuration = get.(float64)
		case "audio":
			cfg.AudioPath = get.(string)
		case "preset":
			cfg.Preset = get.(string)
		case "encoder":
			cfg.VideoEncoder = get.(string)
		case "quality":
			cfg.Quality = get.(int)
		case "truncate":
			cfg.Truncate = get.(bool)
		case "trim":
			cfg.Trim = get.(string)
		case "debug":
			cfg.Debug = get.(bool)
		case "stats":
			cfg.ShowStats = get.(bool)
		case "dump":
			cfg.DumpPath = get.(string)
		case "dump-steps":
			cfg.DumpSteps = get.(int)
		case "config", "gen-script", "audio-sync":
		default:
			err = fmt.Errorf("unhandled flag -%s", f.Name)
		}
	})
	return err
}

func flagSet(name string) bool {
	set := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == name {
			set = true
		}
	})
	return set
}

func resolveAudio(cfg *config.Config, sync bool) {
	if cfg.AudioPath == "" {
		latest, err := system.FindLatestAudio("input/audio")
		if err == nil {
			cfg.AudioPath = latest
			fmt.Printf("[*] Выбрано аудио: %s\n", cfg.AudioPath)
		}
	}

	if cfg.AudioPath == "" || !sync {
		return
	}
	audioDur, err := system.GetAudioDuration(cfg.AudioPath)
	if err != nil {
		log.Printf("[!] Не удалось получить длительность аудио: %v", err)
		return
	}
	cfg.TotalDuration = audioDur
	fmt.Printf("[*] Длительность видео установлена по аудио: %.2fs\n", cfg.TotalDuration)
}

func outputName(cfg *config.Config) string {
	nameSource := cfg.InputPath
	if !system.HasExtension(cfg.InputPath, system.PDFExtensions) {
		if cfg.AudioPath != "" {
			nameSource = cfg.AudioPath
		} else if latestImg, err := system.FindLatestImage(cfg.InputPath); err == nil {
			// Пытаемся найти самое свежее изображение для имени файла
			nameSource = latestImg
		}
	}

	baseName := filepath.Base(nameSource)
	nameOnly := strings.TrimSuffix(baseName, filepath.Ext(baseName))
	cleanName := strings.ReplaceAll(nameOnly, " ", "_")
	timestamp := time.Now().Format("2006-01-02_15-04-05")
	return filepath.Join("output", fmt.Sprintf("%s_%s.mp4", cleanName, timestamp))
}
