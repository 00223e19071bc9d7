package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"log"
	"math/rand"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/example/powerlang/internal/config"
	"github.com/example/powerlang/internal/database"
	"github.com/example/powerlang/internal/impex"
	"github.com/example/powerlang/internal/quiz"
	"github.com/example/powerlang/internal/review"
	"github.com/example/powerlang/internal/scheduler"
	"github.com/example/powerlang/internal/spaced_repetition"
	"github.com/example/powerlang/internal/translator"
	"github.com/example/powerlang/internal/tts"
	"github.com/example/powerlang/pkg/models"
)

const usage = `Usage: powerlang <command> [arguments]

Commands:
  review               review the words due today
  quiz [-n N]          typed quiz over random words
  flashcards [-n N]    flip through random flashcards
  translate <text>     look up a translation
  speak <text>         pronounce text in the learning language
  dict <list|add|delete> [name]
  words <list|add|delete> [arguments]
  import <file>        import words from a CSV or XLSX file
  export <file>        export all words to a CSV or XLSX file
  settings [key value] show or change settings
  remind [-daemon]     check for due words, or keep checking hourly
`

func main() {
	// Missing .env is fine; the defaults cover local use.
	godotenv.Load()

	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
	cmd, args := os.Args[1], os.Args[2:]

	if err := database.Connect(); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()

	settings, err := config.Load()
	if err != nil {
		log.Printf("Settings unreadable, using defaults: %v", err)
	}

	switch cmd {
	case "review":
		err = runReview(settings)
	case "quiz":
		err = runQuiz(args)
	case "flashcards":
		err = runFlashcards(args)
	case "translate":
		err = runTranslate(args, settings)
	case "speak":
		err = runSpeak(args, settings)
	case "dict":
		err = runDict(args)
	case "words":
		err = runWords(args)
	case "import":
		err = runImport(args)
	case "export":
		err = runExport(args)
	case "settings":
		err = runSettings(args, settings)
	case "remind":
		err = runRemind(args)
	default:
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
	if err != nil {
		log.Fatalf("%v", err)
	}
}

// speaker builds the TTS front end with the cache next to the database.
func speaker() *tts.Speaker {
	dataDir := os.Getenv("POWERLANG_DATA_DIR")
	if dataDir == "" {
		dataDir = "data"
	}
	return tts.New(filepath.Join(dataDir, "tts_cache"), nil)
}

// pronouncer is the speech dependency of the review loop. The Speaker
// in internal/tts satisfies it.
type pronouncer interface {
	Speak(text, langCode string, keepCache bool) error
}

func runReview(settings config.Settings) error {
	session, err := review.Start(database.NewWordRepository(), time.Now())
	if err != nil {
		return err
	}
	return reviewLoop(session, settings, speaker(), os.Stdin, os.Stdout)
}

func reviewLoop(session *review.Session, settings config.Settings, speak pronouncer, in io.Reader, out io.Writer) error {
	if session.State() == review.Complete {
		fmt.Fprintln(out, "Nothing due today. Come back tomorrow!")
		return nil
	}

	scanner := bufio.NewScanner(in)
	fmt.Fprintf(out, "%d words to review.\n\n", session.Remaining())

	for session.State() != review.Complete {
		word := session.Current()
		fmt.Fprintf(out, "[%d left] %s\n", session.Remaining(), word.NativeWord)
		// The question is pronounced too, same as the answer.
		if err := speak.Speak(word.NativeWord, settings.NativeCode(), settings.KeepTTSCache); err != nil {
			log.Printf("TTS unavailable: %v", err)
		}
		fmt.Fprint(out, "Press Enter to reveal (q to quit): ")
		if !scanner.Scan() || strings.TrimSpace(scanner.Text()) == "q" {
			break
		}
		session.Reveal()

		fmt.Fprintf(out, "  -> %s", word.LearnedWord)
		if word.Notes != "" {
			fmt.Fprintf(out, "  (%s)", word.Notes)
		}
		fmt.Fprintln(out)
		if err := speak.Speak(word.LearnedWord, settings.LearningCode(), settings.KeepTTSCache); err != nil {
			log.Printf("TTS unavailable: %v", err)
		}

		grade, quit := promptGrade(scanner, out)
		if quit {
			break
		}
		if err := session.Grade(grade); err != nil {
			return err
		}
		fmt.Fprintln(out)
	}

	if session.State() == review.Complete {
		fmt.Fprintln(out, "Session complete, well done!")
	}
	return nil
}

func promptGrade(in *bufio.Scanner, out io.Writer) (spaced_repetition.Grade, bool) {
	for {
		fmt.Fprint(out, "How did it go? [f]orgot [h]ard [g]ood [e]asy (q to quit): ")
		if !in.Scan() {
			return 0, true
		}
		switch strings.ToLower(strings.TrimSpace(in.Text())) {
		case "f":
			return spaced_repetition.Forgot, false
		case "h":
			return spaced_repetition.Hard, false
		case "g":
			return spaced_repetition.Good, false
		case "e":
			return spaced_repetition.Easy, false
		case "q":
			return 0, true
		}
	}
}

func runQuiz(args []string) error {
	fs := flag.NewFlagSet("quiz", flag.ExitOnError)
	size := fs.Int("n", quiz.DefaultQuizSize, "number of words to quiz")
	fs.Parse(args)

	words, err := database.NewWordRepository().GetRandomWords(*size)
	if err != nil {
		return err
	}
	q := quiz.New(words, *size, rand.New(rand.NewSource(time.Now().UnixNano())))
	if q.Phase() == quiz.PhaseDone {
		fmt.Println("No words to quiz yet. Add some first.")
		return nil
	}

	in := bufio.NewScanner(os.Stdin)
	correct := 0
	for q.Phase() != quiz.PhaseDone {
		question := q.Current()
		pos, total := q.Position()
		if q.Phase() == quiz.PhaseRetry {
			fmt.Printf("Retry %d/%d: %s\n", pos, total, question.Prompt)
		} else {
			fmt.Printf("%d/%d: %s\n", pos, total, question.Prompt)
		}
		fmt.Print("> ")
		if !in.Scan() {
			break
		}
		if q.Submit(in.Text()) {
			correct++
			fmt.Println("Correct!")
		} else {
			fmt.Printf("Not quite. It was: %s\n", question.Answer)
		}
	}
	fmt.Printf("\nDone. %d correct, %d missed on the first pass.\n", correct, q.MissedCount())
	return nil
}

func runFlashcards(args []string) error {
	fs := flag.NewFlagSet("flashcards", flag.ExitOnError)
	size := fs.Int("n", quiz.DefaultFlashcardSize, "number of cards to show")
	fs.Parse(args)

	words, err := database.NewWordRepository().GetRandomWords(*size)
	if err != nil {
		return err
	}
	cards := quiz.NewFlashcards(words, *size, rand.New(rand.NewSource(time.Now().UnixNano())))
	if cards.Current() == nil {
		fmt.Println("No words to practice yet. Add some first.")
		return nil
	}

	in := bufio.NewScanner(os.Stdin)
	for {
		card := cards.Current()
		pos, total := cards.Position()
		fmt.Printf("%d/%d: %s\n", pos, total, card.Prompt)
		fmt.Print("Press Enter to flip (q to quit): ")
		if !in.Scan() || strings.TrimSpace(in.Text()) == "q" {
			return nil
		}
		fmt.Printf("  -> %s\n\n", card.Answer)
		if !cards.Advance() {
			fmt.Println("That's all of them.")
			return nil
		}
	}
}

func runTranslate(args []string, settings config.Settings) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: powerlang translate <text>")
	}
	text := strings.Join(args, " ")

	result, err := translator.New().Translate(text, settings.NativeCode(), settings.LearningCode())
	if err != nil {
		return err
	}

	fmt.Printf("%s -> %s\n", text, result.BestTranslation)
	for _, m := range result.Matches {
		fmt.Printf("  %s (%d%%, %s)\n", m.Translation, m.Quality.Percent(), m.Source)
	}
	return nil
}

func runSpeak(args []string, settings config.Settings) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: powerlang speak <text>")
	}
	text := strings.Join(args, " ")
	return speaker().Speak(text, settings.LearningCode(), settings.KeepTTSCache)
}

func runDict(args []string) error {
	repo := database.NewDictionaryRepository()
	if len(args) == 0 {
		args = []string{"list"}
	}

	switch args[0] {
	case "list":
		dicts, err := repo.GetAll()
		if err != nil {
			return err
		}
		if len(dicts) == 0 {
			fmt.Println("No dictionaries yet.")
			return nil
		}
		wordRepo := database.NewWordRepository()
		for _, d := range dicts {
			words, err := wordRepo.GetByDictionary(d.ID)
			if err != nil {
				return err
			}
			fmt.Printf("%4d  %s (%d words)\n", d.ID, d.Name, len(words))
		}
		return nil
	case "add":
		if len(args) < 2 {
			return fmt.Errorf("usage: powerlang dict add <name>")
		}
		dict, err := repo.GetOrCreate(strings.Join(args[1:], " "))
		if err != nil {
			return err
		}
		fmt.Printf("Dictionary %q ready (id %d).\n", dict.Name, dict.ID)
		return nil
	case "delete":
		if len(args) < 2 {
			return fmt.Errorf("usage: powerlang dict delete <name>")
		}
		name := strings.Join(args[1:], " ")
		dict, err := repo.GetByName(name)
		if err != nil {
			return err
		}
		if dict == nil {
			return fmt.Errorf("no dictionary named %q", name)
		}
		if err := repo.Delete(dict.ID); err != nil {
			return err
		}
		fmt.Printf("Deleted %q and its words.\n", name)
		return nil
	default:
		return fmt.Errorf("unknown dict command %q", args[0])
	}
}

func runWords(args []string) error {
	dictRepo := database.NewDictionaryRepository()
	wordRepo := database.NewWordRepository()
	if len(args) == 0 {
		return fmt.Errorf("usage: powerlang words <list|add|delete> ...")
	}

	switch args[0] {
	case "list":
		if len(args) < 2 {
			return fmt.Errorf("usage: powerlang words list <dictionary>")
		}
		dict, err := dictRepo.GetByName(strings.Join(args[1:], " "))
		if err != nil {
			return err
		}
		if dict == nil {
			return fmt.Errorf("no such dictionary")
		}
		words, err := wordRepo.GetByDictionary(dict.ID)
		if err != nil {
			return err
		}
		for _, w := range words {
			fmt.Printf("%4d  %-25s %-25s due %s\n", w.ID, w.NativeWord, w.LearnedWord, w.NextReviewDate)
		}
		return nil
	case "add":
		if len(args) < 4 {
			return fmt.Errorf("usage: powerlang words add <dictionary> <native> <learned> [notes]")
		}
		dict, err := dictRepo.GetOrCreate(args[1])
		if err != nil {
			return err
		}
		word := &models.Word{
			NativeWord:   args[2],
			LearnedWord:  args[3],
			Notes:        strings.Join(args[4:], " "),
			DictionaryID: dict.ID,
		}
		if err := wordRepo.Create(word); err != nil {
			return err
		}
		fmt.Printf("Added %q (id %d), due today.\n", word.NativeWord, word.ID)
		return nil
	case "delete":
		if len(args) < 2 {
			return fmt.Errorf("usage: powerlang words delete <id>")
		}
		id, err := strconv.ParseInt(args[1], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid word id %q", args[1])
		}
		if err := wordRepo.Delete(id); err != nil {
			return err
		}
		fmt.Println("Deleted.")
		return nil
	default:
		return fmt.Errorf("unknown words command %q", args[0])
	}
}

func runImport(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: powerlang import <file>")
	}
	result, err := impex.Import(args[0])
	if err != nil {
		return err
	}
	fmt.Printf("Imported %d words, created %d dictionaries.\n", result.Imported, result.DictionariesCreated)
	for _, e := range result.Errors {
		fmt.Printf("  skipped %s\n", e)
	}
	return nil
}

func runExport(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: powerlang export <file>")
	}
	count, err := impex.Export(args[0])
	if err != nil {
		return err
	}
	fmt.Printf("Exported %d words to %s.\n", count, args[0])
	return nil
}

func runSettings(args []string, settings config.Settings) error {
	if len(args) == 0 {
		fmt.Printf("native_language    %s\n", settings.NativeLanguage)
		fmt.Printf("learning_language  %s\n", settings.LearningLanguage)
		fmt.Printf("keep_tts_cache     %v\n", settings.KeepTTSCache)
		fmt.Printf("ui_language        %s\n", settings.UILanguage)
		return nil
	}
	if len(args) != 2 {
		return fmt.Errorf("usage: powerlang settings [key value]")
	}

	key, value := args[0], args[1]
	switch key {
	case "native_language":
		if !config.KnownLanguage(value) {
			return fmt.Errorf("unknown language %q; supported: %s", value, strings.Join(config.LanguageNames(), ", "))
		}
		settings.NativeLanguage = value
	case "learning_language":
		if !config.KnownLanguage(value) {
			return fmt.Errorf("unknown language %q; supported: %s", value, strings.Join(config.LanguageNames(), ", "))
		}
		settings.LearningLanguage = value
	case "keep_tts_cache":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("keep_tts_cache wants true or false")
		}
		settings.KeepTTSCache = b
	case "ui_language":
		settings.UILanguage = value
	default:
		return fmt.Errorf("unknown setting %q", key)
	}
	if err := config.Save(settings); err != nil {
		return err
	}
	fmt.Printf("%s = %s\n", key, value)
	return nil
}

// consoleNotifier prints reminders to stdout.
type consoleNotifier struct{}

func (consoleNotifier) RemindDue(count int) error {
	fmt.Printf("You have %d words due for review. Run `powerlang review`.\n", count)
	return nil
}

func runRemind(args []string) error {
	fs := flag.NewFlagSet("remind", flag.ExitOnError)
	daemon := fs.Bool("daemon", false, "keep running and remind once a day")
	fs.Parse(args)

	s := scheduler.New(database.NewWordRepository(), consoleNotifier{})
	if !*daemon {
		return s.RunManualCheck()
	}

	s.Start()
	defer s.Stop()
	log.Println("Reminder daemon started. Press Ctrl+C to stop.")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	sig := <-sigChan
	log.Printf("Received signal: %v", sig)
	return nil
}
