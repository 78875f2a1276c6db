// OttoCart turns a recipe into a Walmart cart you can check out in one click.
//
// Usage:
//
//	ottocart [-verbose] [-quiet] [-catalog-url URL] [-no-ai]
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	stdlog "log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/hammamikhairi/ottocart/internal/catalog"
	"github.com/hammamikhairi/ottocart/internal/config"
	"github.com/hammamikhairi/ottocart/internal/conversation"
	"github.com/hammamikhairi/ottocart/internal/display"
	"github.com/hammamikhairi/ottocart/internal/domain"
	"github.com/hammamikhairi/ottocart/internal/engine"
	"github.com/hammamikhairi/ottocart/internal/gpt"
	"github.com/hammamikhairi/ottocart/internal/logger"
	"github.com/hammamikhairi/ottocart/internal/recipe"
	"github.com/hammamikhairi/ottocart/internal/share"
	"github.com/hammamikhairi/ottocart/internal/timer"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	verbose := flag.Bool("verbose", false, "enable verbose/debug logging")
	quiet := flag.Bool("quiet", false, "disable all logging")
	logFile := flag.String("log-file", ".ottocart-logs/ottocart.log", "file to write logs to (use \"stderr\" to log to console)")
	catalogURL := flag.String("catalog-url", cfg.CatalogURL, "product search endpoint (empty uses the built-in catalog)")
	userID := flag.String("user", cfg.UserID, "user id sent with catalog lookups")
	cacheDir := flag.String("cache-dir", cfg.CacheDir, "directory for the persistent catalog cache (empty disables it)")
	noCache := flag.Bool("no-cache", false, "disable the catalog cache entirely")
	noAI := flag.Bool("no-ai", false, "disable recipe generation even if GPT keys are set")
	slowAfter := flag.Duration("slow-after", 3*time.Second, "warn when a catalog lookup takes longer than this")
	flag.Parse()

	logLevel := logger.LevelNormal
	if *verbose {
		logLevel = logger.LevelVerbose
	}
	if *quiet {
		logLevel = logger.LevelOff
	}

	// Direct logs to a file by default so the prompt stays clean.
	var logOut io.Writer = os.Stderr
	if *logFile != "" && *logFile != "stderr" {
		dir := filepath.Dir(*logFile)
		if dir != "" && dir != "." {
			os.MkdirAll(dir, 0o755)
		}
		f, err := os.OpenFile(*logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: could not open log file %s: %v (falling back to stderr)\n", *logFile, err)
		} else {
			logOut = f
			defer f.Close()
		}
	}
	stdlog.SetOutput(logOut)
	stdlog.SetFlags(stdlog.Ltime)

	log := logger.New(logLevel, logOut)

	// Cancelled when the UI quits.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Catalog: remote when configured, built-in table otherwise.
	var resolver domain.CatalogResolver
	if *catalogURL != "" {
		resolver = catalog.NewHTTPResolver(*catalogURL, log.Named("catalog"),
			catalog.WithAPIKey(cfg.CatalogKey),
			catalog.WithHTTPTimeout(cfg.CatalogTimeout),
		)
		log.Info("using remote catalog at %s", *catalogURL)
	} else {
		resolver = catalog.NewMemoryResolver(log.Named("catalog"))
		log.Info("using built-in catalog (set %s to use a remote one)", config.EnvCatalogURL)
	}
	if !*noCache {
		var opts []catalog.CacheOption
		if *cacheDir != "" {
			opts = append(opts, catalog.WithCacheDir(*cacheDir))
		}
		resolver = catalog.NewCachedResolver(resolver, log.Named("cache"), opts...)
	}

	var ui *display.UI
	eng := engine.New(resolver, log.Named("engine"),
		engine.WithUserID(*userID),
		engine.WithOnChange(func(domain.CartSnapshot) {
			if ui != nil {
				ui.Refresh()
			}
		}),
	)
	ui = display.NewUI(eng)

	recipes := recipe.NewMemorySource(log.Named("recipes"))
	notifier := conversation.NewCLINotifier(log, ui.Printf)
	parser := conversation.NewKeywordParser(log)
	exporter := share.NewClipboard(log)

	var generator domain.RecipeGenerator
	if cfg.GPTEnabled() && !*noAI {
		var gptOpts []gpt.ClientOption
		if cfg.GPTModel != "" {
			gptOpts = append(gptOpts, gpt.WithModel(cfg.GPTModel))
		}
		if cfg.GPTAuth == config.AuthBearer {
			gptOpts = append(gptOpts, gpt.WithBearerAuth())
		}
		gptLog := log.Named("gpt")
		generator = gpt.NewGenerator(gpt.NewClient(cfg.GPTEndpoint, cfg.GPTKey, gptLog, gptOpts...), gptLog)
		log.Info("recipe generation enabled")
	} else if !*noAI {
		log.Info("recipe generation disabled: set %s and %s env vars to enable", config.EnvGPTKey, config.EnvGPTEndpoint)
	}

	supervisor := timer.New(eng, notifier, log.Named("supervisor"),
		timer.WithSlowThreshold(*slowAfter),
	)
	supervisor.Start(ctx)
	defer supervisor.Stop()

	app := &cliApp{
		engine:    eng,
		recipes:   recipes,
		generator: generator,
		exporter:  exporter,
		parser:    parser,
		log:       log,
		ui:        ui,
	}

	fmt.Println(display.RenderBanner("Type 'help' for commands, 'quit' to exit."))

	go func() {
		ui.WaitReady()
		app.run(ctx)
		ui.Quit()
	}()

	// Bubble Tea owns the terminal and blocks until quit.
	if err := ui.Run(); err != nil {
		log.Error("display: %v", err)
	}
	cancel()
}

type cliApp struct {
	engine    *engine.Engine
	recipes   *recipe.MemorySource
	generator domain.RecipeGenerator // nil when generation is disabled
	exporter  domain.Exporter
	parser    domain.IntentParser
	log       *logger.Logger
	ui        *display.UI
	listed    []domain.RecipeSummary // numbering shown by the last 'list'
}

func (a *cliApp) run(ctx context.Context) {
	a.ui.PrintChat("Pick a recipe and I'll fill a Walmart cart for it.")
	a.ui.Println("")
	a.showRecipes(ctx)

	uiCh := a.ui.InputChan()
	for {
		var input string
		var ok bool

		select {
		case <-ctx.Done():
			return
		case input, ok = <-uiCh:
			if !ok {
				return
			}
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}

		intent, err := a.parser.Parse(ctx, input)
		if err != nil {
			a.log.Error("parsing input: %v", err)
			continue
		}

		a.log.Debug("intent: %s (args=%v text=%q)", intent.Type, intent.Args, intent.Text)
		if intent.Type == domain.IntentQuit {
			a.ui.PrintChat("Bye!")
			return
		}
		a.handleIntent(ctx, intent)
	}
}

func (a *cliApp) handleIntent(ctx context.Context, intent *domain.Intent) {
	switch intent.Type {
	case domain.IntentHelp:
		a.showHelp()
	case domain.IntentListRecipes:
		a.showRecipes(ctx)
	case domain.IntentLoadRecipe:
		a.loadByNumber(ctx, intent.Args[0])
	case domain.IntentSearchRecipes:
		a.searchRecipes(ctx, intent.Text)
	case domain.IntentGenerate:
		a.generate(ctx, intent.Text)
	case domain.IntentShowCart:
		a.showCart()
	case domain.IntentPick:
		a.pick(intent.Args[0], intent.Args[1])
	case domain.IntentQuantity:
		a.setQuantity(intent.Args[0], intent.Args[1])
	case domain.IntentLink:
		a.showLink()
	case domain.IntentCopy:
		a.copyLink(ctx)
	case domain.IntentUnknown:
		a.ui.PrintHint(fmt.Sprintf("Didn't catch %q. Type 'help' for commands.", intent.Text))
	}
}

// ── Recipes ──────────────────────────────────────────────────────

func (a *cliApp) showRecipes(ctx context.Context) {
	recipes, err := a.recipes.List(ctx)
	if err != nil {
		a.ui.PrintUrgent(fmt.Sprintf("Error loading recipes: %v", err))
		return
	}
	a.listed = recipes

	a.ui.PrintHeading("Recipes:")
	for i, r := range recipes {
		a.ui.PrintRow(fmt.Sprintf("[%d] %s", i+1, r.Title))
		a.ui.PrintHint(fmt.Sprintf("    %d ingredients", r.IngredientCount))
	}
	a.ui.Println("")
	if a.generator != nil {
		a.ui.PrintChat("Pick one by number, or 'generate <dish>' for something new.")
	} else {
		a.ui.PrintChat("Pick one by number.")
	}
}

// searchRecipes lists matching recipes and makes their numbering the one
// bare numbers refer to.
func (a *cliApp) searchRecipes(ctx context.Context, query string) {
	found, err := a.recipes.Search(ctx, query)
	if err != nil {
		a.ui.PrintUrgent(fmt.Sprintf("Error searching recipes: %v", err))
		return
	}
	if len(found) == 0 {
		a.ui.PrintHint(fmt.Sprintf("No recipe mentions %q. Type 'list' to see them all.", query))
		return
	}
	a.listed = found

	a.ui.PrintHeading(fmt.Sprintf("Recipes matching %q:", query))
	for i, r := range found {
		a.ui.PrintRow(fmt.Sprintf("[%d] %s", i+1, r.Title))
	}
	a.ui.PrintChat("Pick one by number.")
}

func (a *cliApp) loadByNumber(ctx context.Context, arg string) {
	if len(a.listed) == 0 {
		if recipes, err := a.recipes.List(ctx); err == nil {
			a.listed = recipes
		}
	}
	n, err := strconv.Atoi(arg)
	if err != nil || n < 1 || n > len(a.listed) {
		a.ui.PrintHint(fmt.Sprintf("No recipe %s. Type 'list' to see them.", arg))
		return
	}

	r, err := a.recipes.Get(ctx, a.listed[n-1].ID)
	if err != nil {
		a.ui.PrintUrgent(fmt.Sprintf("Error: %v", err))
		return
	}
	a.load(ctx, r)
}

func (a *cliApp) generate(ctx context.Context, request string) {
	if a.generator == nil {
		a.ui.PrintHint("Recipe generation is off. Set GPT_CHAT_KEY and GPT_CHAT_ENDPOINT to enable it.")
		return
	}

	a.ui.PrintHint("Writing a recipe...")
	genCtx, cancel := context.WithTimeout(ctx, 45*time.Second)
	defer cancel()

	r, err := a.generator.Generate(genCtx, request)
	if err != nil {
		a.log.Error("generate: %v", err)
		a.ui.PrintUrgent("Couldn't come up with a recipe for that. Try rephrasing.")
		return
	}
	if err := a.recipes.Add(ctx, r); err != nil {
		a.log.Warn("storing generated recipe: %v", err)
	}
	a.load(ctx, r)
}

// load starts a catalog lookup and prints the cart once it lands, unless
// another recipe was loaded in the meantime.
func (a *cliApp) load(ctx context.Context, r *domain.Recipe) {
	a.ui.PrintHeading(fmt.Sprintf("=== %s ===", r.Title))
	a.ui.PrintHint(fmt.Sprintf("Finding products for %d ingredients...", len(r.IngredientUniverse())))

	done := a.engine.Load(ctx, r)
	go func() {
		select {
		case <-ctx.Done():
			return
		case <-done:
		}
		if a.engine.Recipe() == r && a.engine.Status() == domain.StatusResolved {
			a.showCart()
		}
	}()
}

// ── Cart ─────────────────────────────────────────────────────────

func (a *cliApp) showCart() {
	snap := a.engine.Snapshot()
	if snap.RecipeID == "" {
		a.ui.PrintHint(domain.ErrNoRecipe.Error() + ". Pick one first.")
		return
	}
	if snap.Status == domain.StatusLoading {
		a.ui.PrintHint(fmt.Sprintf("Still finding products for %s...", snap.RecipeTitle))
		return
	}

	a.ui.PrintHeading(fmt.Sprintf("Cart for %s", snap.RecipeTitle))
	for i, opt := range snap.Options {
		if len(opt.Candidates) == 0 {
			a.ui.PrintHint(fmt.Sprintf("%2d. %s: no products found", i+1, opt.IngredientName))
			continue
		}

		chosen := snap.Selection[opt.IngredientName]
		qty := 1
		for _, it := range snap.Items {
			if it.IngredientName == opt.IngredientName {
				qty = it.Quantity
				break
			}
		}

		a.ui.PrintRow(fmt.Sprintf("%2d. %s", i+1, opt.IngredientName))
		for j, c := range opt.Candidates {
			line := fmt.Sprintf("      [%d] %s  %s", j+1, c.Name, money(c.Price))
			if c.ProductID == chosen {
				line = fmt.Sprintf("    * [%d] %s  %s x%d = %s", j+1, c.Name, money(c.Price), qty, money(c.Price.Mul(decimal.NewFromInt(int64(qty)))))
				a.ui.PrintRow(line)
				continue
			}
			a.ui.PrintHint(line)
		}
	}

	a.ui.Println("")
	a.ui.PrintRow(fmt.Sprintf("Items: %d   Total: %s", snap.Totals.ItemCount(), money(snap.Totals.TotalPrice)))
	if snap.CheckoutAvailable() {
		a.ui.PrintHint("Type 'link' to see the checkout link or 'copy' to copy it.")
	} else {
		a.ui.PrintUrgent(domain.ErrCheckoutUnavailable.Error())
	}
}

// ingredientAt maps a 1-based number from the cart listing to an ingredient.
func (a *cliApp) ingredientAt(arg string) (domain.IngredientOptions, bool) {
	snap := a.engine.Snapshot()
	if snap.RecipeID == "" {
		a.ui.PrintHint(domain.ErrNoRecipe.Error() + ". Pick one first.")
		return domain.IngredientOptions{}, false
	}
	n, err := strconv.Atoi(arg)
	if err != nil || n < 1 || n > len(snap.Options) {
		a.ui.PrintHint(fmt.Sprintf("No ingredient %s. Type 'cart' to see the numbering.", arg))
		return domain.IngredientOptions{}, false
	}
	return snap.Options[n-1], true
}

func (a *cliApp) pick(ingArg, candArg string) {
	opt, ok := a.ingredientAt(ingArg)
	if !ok {
		return
	}
	n, err := strconv.Atoi(candArg)
	if err != nil || n < 1 || n > len(opt.Candidates) {
		a.ui.PrintHint(fmt.Sprintf("%s has no option %s.", opt.IngredientName, candArg))
		return
	}
	c := opt.Candidates[n-1]
	if !a.engine.Select(opt.IngredientName, c.ProductID) {
		a.ui.PrintHint("That choice is no longer available.")
		return
	}
	a.ui.PrintChat(fmt.Sprintf("%s -> %s (%s)", opt.IngredientName, c.Name, money(c.Price)))
}

func (a *cliApp) setQuantity(ingArg, qtyArg string) {
	opt, ok := a.ingredientAt(ingArg)
	if !ok {
		return
	}
	qty, err := strconv.Atoi(qtyArg)
	if err != nil {
		a.ui.PrintHint(fmt.Sprintf("%q is not a number.", qtyArg))
		return
	}
	if err := a.engine.SetQuantity(opt.IngredientName, qty); err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidQuantity):
			a.ui.PrintHint("Quantity must be at least 1.")
		case errors.Is(err, domain.ErrUnknownIngredient):
			a.ui.PrintHint(fmt.Sprintf("%s has no product to buy.", opt.IngredientName))
		default:
			a.ui.PrintUrgent(fmt.Sprintf("Error: %v", err))
		}
		return
	}
	a.ui.PrintChat(fmt.Sprintf("%s x%d", opt.IngredientName, qty))
}

func (a *cliApp) showLink() {
	link := a.engine.Link()
	if link == "" {
		a.ui.PrintUrgent(domain.ErrCheckoutUnavailable.Error())
		return
	}
	a.ui.PrintRow(link)
}

func (a *cliApp) copyLink(ctx context.Context) {
	err := a.exporter.Export(ctx, a.engine.Link())
	switch {
	case err == nil:
		a.ui.PrintChat("Checkout link copied to clipboard.")
	case errors.Is(err, domain.ErrCheckoutUnavailable):
		a.ui.PrintUrgent(err.Error())
	default:
		a.log.Error("copy: %v", err)
		a.ui.PrintUrgent("Couldn't reach the clipboard. Use 'link' and copy it by hand.")
	}
}

func (a *cliApp) showHelp() {
	a.ui.PrintHeading("Commands:")
	a.ui.PrintRow("  list / recipes      Show available recipes")
	a.ui.PrintRow("  search <text>       Find recipes by title or ingredient")
	a.ui.PrintRow("  1, 2, 3...          Load a recipe by number")
	a.ui.PrintRow("  generate <dish>     Have the AI write a recipe and load it")
	a.ui.PrintRow("  cart                Show products, quantities and total")
	a.ui.PrintRow("  pick <ing> <opt>    Choose another product for an ingredient")
	a.ui.PrintRow("  qty <ing> <n>       Buy n units of an ingredient's product")
	a.ui.PrintRow("  link                Print the Walmart checkout link")
	a.ui.PrintRow("  copy                Copy the checkout link to the clipboard")
	a.ui.PrintRow("  help                Show this message")
	a.ui.PrintRow("  quit / exit         Exit")
}

func money(d decimal.Decimal) string {
	return "$" + d.StringFixed(2)
}
