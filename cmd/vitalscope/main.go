package main

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	osSignal "os/signal"
	"strconv"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/vitalscope/internal/config"
	"github.com/san-kum/vitalscope/internal/dsp"
	"github.com/san-kum/vitalscope/internal/monitor"
	"github.com/san-kum/vitalscope/internal/playback"
	"github.com/san-kum/vitalscope/internal/repoutil"
	"github.com/san-kum/vitalscope/internal/signal"
	"github.com/san-kum/vitalscope/internal/store"
	"github.com/san-kum/vitalscope/internal/stream"
	"github.com/san-kum/vitalscope/internal/tracks"
)

var (
	dataDir    string
	configFile string
	preset     string
	musicDir   string
	seed       int64
	cutoff     float64
	order      int
	tickMillis int
	noSync     bool
	// record
	recordSecs float64
	// setup
	outPath string
	launch  bool
	// stream
	natsURL    string
	ecgSubject string
	icpSubject string
	streamRate int
	batchSize  int
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "vitalscope",
		Short: "terminal biosignal monitor with music playback",
		RunE:  runMonitor,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".vitalscope", "data directory")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().StringVar(&preset, "preset", "", "use preset configuration")

	addSignalFlags := func(cmd *cobra.Command) {
		cmd.Flags().StringVar(&musicDir, "music", "", "music directory")
		cmd.Flags().Int64Var(&seed, "seed", 0, "random seed")
		cmd.Flags().Float64Var(&cutoff, "cutoff", config.DefaultCutoff, "low-pass cutoff (hz)")
		cmd.Flags().IntVar(&order, "order", config.DefaultFilterOrder, "low-pass filter order")
		cmd.Flags().IntVar(&tickMillis, "tick", config.DefaultTickMillis, "render interval (ms)")
	}

	monitorCmd := &cobra.Command{
		Use:   "monitor",
		Short: "run the live monitor",
		RunE:  runMonitor,
	}
	addSignalFlags(monitorCmd)
	addSignalFlags(rootCmd)
	rootCmd.Flags().BoolVar(&noSync, "no-sync", false, "skip companion repo sync")
	monitorCmd.Flags().BoolVar(&noSync, "no-sync", false, "skip companion repo sync")

	tracksCmd := &cobra.Command{
		Use:   "tracks",
		Short: "list discovered tracks",
		RunE:  listTracks,
	}
	tracksCmd.Flags().StringVar(&musicDir, "music", "", "music directory")

	recordCmd := &cobra.Command{
		Use:   "record",
		Short: "record a headless session",
		RunE:  runRecord,
	}
	addSignalFlags(recordCmd)
	recordCmd.Flags().Float64Var(&recordSecs, "time", 10.0, "duration (s)")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list recorded sessions",
		RunE:  listSessions,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [session_id]",
		Short: "plot a recorded session",
		Args:  cobra.ExactArgs(1),
		RunE:  plotSession,
	}

	analyzeCmd := &cobra.Command{
		Use:   "analyze [session_id]",
		Short: "frequency analysis of a recorded session",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeSession,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [session_id]",
		Short: "export session samples to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [session_id]",
		Short: "export session data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Run: func(cmd *cobra.Command, args []string) {
			for _, p := range config.ListPresets() {
				fmt.Println(p)
			}
		},
	}

	setupCmd := &cobra.Command{
		Use:   "setup",
		Short: "write default config and sync the companion repo",
		RunE:  runSetup,
	}
	setupCmd.Flags().StringVar(&outPath, "out", "vitalscope.yaml", "config output path")
	setupCmd.Flags().BoolVar(&launch, "launch", false, "launch the monitor after setup")

	streamCmd := &cobra.Command{
		Use:   "stream",
		Short: "publish live vitals over NATS",
		RunE:  runStream,
	}
	streamCmd.Flags().StringVar(&natsURL, "nats", "nats://127.0.0.1:4222", "NATS url")
	streamCmd.Flags().StringVar(&ecgSubject, "ecg-subject", "vitals.ecg", "ECG subject")
	streamCmd.Flags().StringVar(&icpSubject, "icp-subject", "vitals.icp", "ICP subject")
	streamCmd.Flags().IntVar(&streamRate, "rate", 250, "ECG sampling rate (hz)")
	streamCmd.Flags().IntVar(&batchSize, "batch", 10, "samples per message")
	streamCmd.Flags().Int64Var(&seed, "seed", 0, "random seed")

	rootCmd.AddCommand(monitorCmd, tracksCmd, recordCmd, listCmd, plotCmd, analyzeCmd,
		exportCSVCmd, exportJSONCmd, presetsCmd, setupCmd, streamCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig resolves preset, config file, and CLI flags, in increasing
// precedence.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		p := config.GetPreset(preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
		c := *p
		cfg = &c
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	if cmd.Flags().Changed("music") {
		cfg.MusicDir = musicDir
	}
	if cmd.Flags().Changed("cutoff") {
		cfg.Filter.Cutoff = cutoff
	}
	if cmd.Flags().Changed("order") {
		cfg.Filter.Order = order
	}
	if cmd.Flags().Changed("tick") {
		cfg.TickMillis = tickMillis
	}
	if cmd.Flags().Changed("seed") {
		cfg.Seed = seed
	} else if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}

	return cfg, cfg.Validate()
}

func runMonitor(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	if !noSync && cfg.Repo.URL != "" {
		if err := repoutil.Sync(cmd.Context(), cfg.Repo.URL, cfg.Repo.Dir); err != nil {
			fmt.Printf("warning: repo sync failed: %v\n", err)
		}
	}

	names, err := tracks.Scan(cfg.MusicDir)
	if err != nil {
		return err
	}
	if len(names) == 0 {
		fmt.Printf("no tracks found in %s\n", cfg.MusicDir)
		return nil
	}

	filter, err := dsp.NewLowPass(cfg.Filter.Order, cfg.Filter.Cutoff, float64(cfg.SampleRate))
	if err != nil {
		return err
	}
	proxy := signal.NewProxy(cfg.SampleRate, cfg.Seed)
	driver := playback.NewDriver(cfg.MusicDir, names, playback.PortAudioSink{}, proxy, filter, cfg.Tick())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	p := tea.NewProgram(monitor.New(cfg, driver, cancel))
	go func() {
		// the program owns the terminal; never print from here
		if err := driver.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			p.Println(fmt.Sprintf("playback stopped: %v", err))
		}
	}()

	_, err = p.Run()
	return err
}

func listTracks(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	names, err := tracks.Scan(cfg.MusicDir)
	if err != nil {
		return err
	}
	if len(names) == 0 {
		fmt.Printf("no tracks found in %s\n", cfg.MusicDir)
		return nil
	}
	for _, n := range names {
		fmt.Println(n)
	}
	return nil
}

func runRecord(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	st := store.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	ecg := signal.NewECG()
	icp := signal.NewICP(cfg.Seed)

	steps := int(recordSecs / cfg.Tick().Seconds())
	times := make([]float64, 0, steps)
	ecgSamples := make([]float64, 0, steps)
	icpSamples := make([]float64, 0, steps)

	fmt.Printf("recording %.1fs at %dms per sample...\n", recordSecs, cfg.TickMillis)

	ticker := time.NewTicker(cfg.Tick())
	defer ticker.Stop()
	for i := 0; i < steps; i++ {
		<-ticker.C
		times = append(times, float64(i)*cfg.Tick().Seconds())
		ecgSamples = append(ecgSamples, ecg.Next())
		icpSamples = append(icpSamples, icp.Next())
	}

	meta := store.SessionMetadata{
		Seed:        cfg.Seed,
		Duration:    recordSecs,
		TickMillis:  cfg.TickMillis,
		FilterOrder: cfg.Filter.Order,
		Cutoff:      cfg.Filter.Cutoff,
	}
	sessionID, err := st.Save(meta, times, ecgSamples, icpSamples)
	if err != nil {
		return err
	}

	fmt.Printf("session id: %s\n", sessionID)
	fmt.Printf("samples: %d\n", len(times))
	return nil
}

func listSessions(cmd *cobra.Command, args []string) error {
	st := store.New(dataDir)
	sessions, err := st.List()
	if err != nil {
		return err
	}
	if len(sessions) == 0 {
		fmt.Println("no sessions found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTIME\tDURATION\tTICK\tSEED")
	for _, s := range sessions {
		fmt.Fprintf(w, "%s\t%s\t%.2fs\t%dms\t%d\n",
			s.ID,
			s.Timestamp.Format("2006-01-02 15:04:05"),
			s.Duration,
			s.TickMillis,
			s.Seed,
		)
	}
	return w.Flush()
}

func plotSession(cmd *cobra.Command, args []string) error {
	st := store.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	_, ecgSamples, icpSamples, err := st.LoadSamples(args[0])
	if err != nil {
		return err
	}
	if len(ecgSamples) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("session: %s\n", meta.ID)
	fmt.Printf("samples: %d\n\n", len(ecgSamples))

	fmt.Println(asciigraph.Plot(ecgSamples,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption("ecg waveform"),
	))
	fmt.Println()
	fmt.Println(asciigraph.Plot(icpSamples,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption("icp pressure (simulated)"),
	))
	return nil
}

func analyzeSession(cmd *cobra.Command, args []string) error {
	st := store.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	_, _, icpSamples, err := st.LoadSamples(args[0])
	if err != nil {
		return err
	}
	if len(icpSamples) == 0 {
		return fmt.Errorf("no data")
	}

	fmt.Printf("frequency analysis: %s\n\n", meta.ID)

	n := 1
	for n < len(icpSamples) {
		n *= 2
	}
	padded := make([]float64, n)
	copy(padded, icpSamples)

	ps := dsp.PowerSpectrum(padded)
	plotData := ps[:len(ps)/4]

	fmt.Println(asciigraph.Plot(plotData,
		asciigraph.Height(15),
		asciigraph.Width(80),
		asciigraph.Caption("icp power spectrum"),
	))
	fmt.Println()

	maxPower, maxIdx := 0.0, 0
	for i := 1; i < len(plotData); i++ {
		if plotData[i] > maxPower {
			maxPower = plotData[i]
			maxIdx = i
		}
	}

	freq := float64(maxIdx) / meta.Duration
	fmt.Printf("dominant frequency: %.3f hz\n", freq)
	if freq > 0 {
		fmt.Printf("period: %.3f s\n", 1.0/freq)
	}
	return nil
}

func exportCSV(cmd *cobra.Command, args []string) error {
	st := store.New(dataDir)
	times, ecgSamples, icpSamples, err := st.LoadSamples(args[0])
	if err != nil {
		return err
	}
	if len(times) == 0 {
		return fmt.Errorf("no data to export")
	}

	w := csv.NewWriter(os.Stdout)
	defer w.Flush()

	if err := w.Write([]string{"time", "ecg", "icp"}); err != nil {
		return err
	}
	for i := range times {
		row := []string{
			strconv.FormatFloat(times[i], 'f', 6, 64),
			strconv.FormatFloat(ecgSamples[i], 'f', 6, 64),
			strconv.FormatFloat(icpSamples[i], 'f', 6, 64),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	st := store.New(dataDir)
	return st.ExportJSON(os.Stdout, args[0])
}

func runSetup(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	st := store.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}
	fmt.Printf("data directory ready: %s\n", dataDir)

	if err := config.Save(outPath, cfg); err != nil {
		return err
	}
	fmt.Printf("config written to %s\n", outPath)

	if cfg.Repo.URL != "" {
		fmt.Printf("syncing %s...\n", cfg.Repo.URL)
		if err := repoutil.Sync(cmd.Context(), cfg.Repo.URL, cfg.Repo.Dir); err != nil {
			fmt.Printf("warning: repo sync failed: %v\n", err)
		}
	}

	if launch {
		configFile = outPath
		noSync = true // already synced above
		return runMonitor(cmd, args)
	}
	return nil
}

func runStream(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	nc, err := stream.Connect(natsURL)
	if err != nil {
		return err
	}
	defer nc.Drain()

	ecgPub := stream.NewPublisher(nc, ecgSubject, batchSize)
	icpPub := stream.NewPublisher(nc, icpSubject, 1)

	ecg := signal.NewECG()
	icp := signal.NewICP(cfg.Seed)

	ctx, stop := osSignal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	fmt.Printf("streaming to %s (%s at %dhz, %s per tick)\n", natsURL, ecgSubject, streamRate, icpSubject)

	ecgTicker := time.NewTicker(time.Second / time.Duration(streamRate))
	defer ecgTicker.Stop()
	icpTicker := time.NewTicker(cfg.Tick())
	defer icpTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			ecgPub.Flush()
			icpPub.Flush()
			fmt.Println("stream: stopping")
			return nil
		case <-ecgTicker.C:
			if err := ecgPub.Publish(ecg.Next()); err != nil {
				return err
			}
		case <-icpTicker.C:
			if err := icpPub.Publish(icp.Next()); err != nil {
				return err
			}
		}
	}
}
