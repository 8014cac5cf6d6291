package main

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/timekeep/timekeep/internal/interval"
	"github.com/timekeep/timekeep/internal/models"
	"github.com/timekeep/timekeep/internal/stats"
	"github.com/timekeep/timekeep/internal/timeline"
	"github.com/timekeep/timekeep/internal/timer"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "timekeep",
	Short: "Personal time tracking",
	Long:  "timekeep records intervals of activity, tags them, tracks goals against tags, and reports aggregated statistics.",
}

var startCmd = &cobra.Command{
	Use:   "start <activity>",
	Short: "Start the recording timer for an activity",
	Args:  cobra.ExactArgs(1),
	RunE:  runStart,
}

var pauseCmd = &cobra.Command{
	Use:   "pause",
	Short: "Pause the running timer",
	RunE:  runPause,
}

var resumeCmd = &cobra.Command{
	Use:   "resume",
	Short: "Resume a paused timer",
	RunE:  runResume,
}

var stopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the timer and record the session",
	RunE:  runStop,
}

var discardCmd = &cobra.Command{
	Use:   "discard",
	Short: "Drop the current timer session without recording it",
	RunE:  runDiscard,
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the current timer state",
	RunE:  runStatus,
}

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Show aggregated statistics for a date range",
	RunE:  runReport,
}

var timelineCmd = &cobra.Command{
	Use:   "timeline",
	Short: "Show one day's entries and untracked gaps",
	RunE:  runTimeline,
}

var goalCmd = &cobra.Command{
	Use:   "goal",
	Short: "Manage goals",
}

var goalAddCmd = &cobra.Command{
	Use:   "add <tag>",
	Short: "Create a goal against a tag",
	Args:  cobra.ExactArgs(1),
	RunE:  runGoalAdd,
}

var goalListCmd = &cobra.Command{
	Use:   "list",
	Short: "List goals with current progress",
	RunE:  runGoalList,
}

var goalArchiveCmd = &cobra.Command{
	Use:   "archive <id>",
	Short: "Archive a goal",
	Args:  cobra.ExactArgs(1),
	RunE:  runGoalArchive,
}

var goalActivateCmd = &cobra.Command{
	Use:   "activate <id>",
	Short: "Re-activate an archived goal",
	Args:  cobra.ExactArgs(1),
	RunE:  runGoalActivate,
}

var entryCmd = &cobra.Command{
	Use:   "entry",
	Short: "Manage recorded entries",
}

var entrySplitCmd = &cobra.Command{
	Use:   "split <id> <time>",
	Short: "Split an entry at an instant (e.g. '2024-07-15 10:30')",
	Args:  cobra.ExactArgs(2),
	RunE:  runEntrySplit,
}

var entryMergeCmd = &cobra.Command{
	Use:   "merge <id> <id>...",
	Short: "Merge adjacent entries of one activity",
	Args:  cobra.MinimumNArgs(2),
	RunE:  runEntryMerge,
}

var activityCmd = &cobra.Command{
	Use:   "activity",
	Short: "Manage activities",
}

var activityAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Create an activity",
	Args:  cobra.ExactArgs(1),
	RunE:  runActivityAdd,
}

var activityListCmd = &cobra.Command{
	Use:   "list",
	Short: "List activities",
	RunE:  runActivityList,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "timekeep.yaml", "Path to configuration file")

	startCmd.Flags().String("tags", "", "Comma-separated tag names")
	startCmd.Flags().String("color", "#808080", "Color for a newly created activity")
	reportCmd.Flags().String("from", "", "Start date (YYYY-MM-DD), default today")
	reportCmd.Flags().String("to", "", "End date (YYYY-MM-DD), default from")
	timelineCmd.Flags().String("date", "", "Date (YYYY-MM-DD), default today")
	goalAddCmd.Flags().Int64("target", 0, "Target minutes")
	goalAddCmd.Flags().String("type", "min", "Goal type: min, max, exact")
	goalAddCmd.Flags().String("period", "daily", "Period: daily, weekly, monthly, custom")
	goalAddCmd.Flags().String("start", "", "Start date for custom period (YYYY-MM-DD)")
	goalAddCmd.Flags().String("end", "", "End date for custom period (YYYY-MM-DD)")
	goalListCmd.Flags().Bool("all", false, "Include archived goals")
	activityAddCmd.Flags().String("color", "#808080", "Activity color")

	goalCmd.AddCommand(goalAddCmd, goalListCmd, goalArchiveCmd, goalActivateCmd)
	entryCmd.AddCommand(entrySplitCmd, entryMergeCmd)
	activityCmd.AddCommand(activityAddCmd, activityListCmd)
	rootCmd.AddCommand(
		startCmd, pauseCmd, resumeCmd, stopCmd, discardCmd, statusCmd,
		reportCmd, timelineCmd, goalCmd, entryCmd, activityCmd,
	)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runStart(cmd *cobra.Command, args []string) error {
	a, err := openApp(configPath)
	if err != nil {
		return err
	}
	defer a.Close()

	color, _ := cmd.Flags().GetString("color")
	activityID, activityColor, err := a.activityByName(args[0], color)
	if err != nil {
		return err
	}

	var tagIDs []int64
	if raw, _ := cmd.Flags().GetString("tags"); raw != "" {
		tagIDs, err = a.tagIDsByName(strings.Split(raw, ","))
		if err != nil {
			return err
		}
	}

	a.timer.Start(activityID, args[0], activityColor, tagIDs)
	fmt.Printf("Recording %q\n", args[0])
	return nil
}

func runPause(cmd *cobra.Command, args []string) error {
	a, err := openApp(configPath)
	if err != nil {
		return err
	}
	defer a.Close()

	a.timer.Pause()
	printTimerState(a.timer.State())
	return nil
}

func runResume(cmd *cobra.Command, args []string) error {
	a, err := openApp(configPath)
	if err != nil {
		return err
	}
	defer a.Close()

	a.timer.Resume()
	printTimerState(a.timer.State())
	return nil
}

func runStop(cmd *cobra.Command, args []string) error {
	a, err := openApp(configPath)
	if err != nil {
		return err
	}
	defer a.Close()

	res := a.timer.Stop()
	if res == nil {
		fmt.Println("No timer running")
		return nil
	}

	created, err := a.entries.SaveTimerResult(*res, a.loc)
	if err != nil {
		return err
	}
	for _, entry := range created {
		fmt.Printf("Recorded entry %d: %s - %s (%d min)\n",
			entry.ID,
			entry.StartTime.In(a.loc).Format("2006-01-02 15:04"),
			entry.EndTime.In(a.loc).Format("15:04"),
			entry.DurationMinutes,
		)
	}
	return nil
}

func runDiscard(cmd *cobra.Command, args []string) error {
	a, err := openApp(configPath)
	if err != nil {
		return err
	}
	defer a.Close()

	a.timer.Discard()
	fmt.Println("Timer discarded")
	return nil
}

func runStatus(cmd *cobra.Command, args []string) error {
	a, err := openApp(configPath)
	if err != nil {
		return err
	}
	defer a.Close()

	printTimerState(a.timer.State())
	return nil
}

func printTimerState(s timer.State) {
	switch s.Status {
	case timer.StatusRunning:
		fmt.Printf("Running: %s (%s elapsed)\n", s.ActivityName, formatMillis(s.ElapsedMillis))
	case timer.StatusPaused:
		fmt.Printf("Paused: %s (%s elapsed)\n", s.ActivityName, formatMillis(s.ElapsedMillis))
	default:
		fmt.Println("Idle")
	}
}

func runReport(cmd *cobra.Command, args []string) error {
	a, err := openApp(configPath)
	if err != nil {
		return err
	}
	defer a.Close()

	from, _ := cmd.Flags().GetString("from")
	to, _ := cmd.Flags().GetString("to")
	window, err := parseWindow(from, to, a.loc)
	if err != nil {
		return err
	}

	stored, err := a.entries.EntriesInRange(window)
	if err != nil {
		return err
	}
	entries := make([]models.TimeEntry, len(stored))
	for i, e := range stored {
		entries[i] = *e
	}

	fmt.Printf("Total: %d min across %d entries\n",
		stats.TotalMinutes(entries, window),
		stats.EntryCount(entries, window),
	)

	fmt.Println("\nPer day:")
	for _, day := range stats.DailyTotals(entries, window, a.loc) {
		fmt.Printf("  %s  %4d min  %d entries\n",
			day.Date.Format("2006-01-02"), day.Minutes, day.Entries)
	}

	hourly := stats.HourlyTotals(entries, window, a.loc)
	if len(hourly) > 0 {
		fmt.Println("\nPer hour:")
		for hour := 0; hour < 24; hour++ {
			if minutes, ok := hourly[hour]; ok {
				fmt.Printf("  %02d:00  %4d min\n", hour, minutes)
			}
		}
	}

	if byActivity := stats.ActivityTotals(entries, window); len(byActivity) > 0 {
		fmt.Println("\nPer activity:")
		printBuckets(byActivity, func(id int64) string {
			if activity, err := a.activities.GetByID(id); err == nil {
				return activity.Name
			}
			return fmt.Sprintf("activity %d", id)
		})
	}

	if byTag := stats.TagTotals(entries, window); len(byTag) > 0 {
		fmt.Println("\nPer tag:")
		printBuckets(byTag, func(id int64) string {
			if tag, err := a.tags.GetByID(id); err == nil {
				return tag.Name
			}
			return fmt.Sprintf("tag %d", id)
		})
	}
	return nil
}

func printBuckets(buckets map[int64]stats.Bucket, name func(int64) string) {
	ids := make([]int64, 0, len(buckets))
	for id := range buckets {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, id := range ids {
		b := buckets[id]
		fmt.Printf("  %-20s  %4d min  %d entries\n", name(id), b.Minutes, b.Count)
	}
}

func runTimeline(cmd *cobra.Command, args []string) error {
	a, err := openApp(configPath)
	if err != nil {
		return err
	}
	defer a.Close()

	date := time.Now()
	if raw, _ := cmd.Flags().GetString("date"); raw != "" {
		date, err = parseDate(raw, a.loc)
		if err != nil {
			return err
		}
	}

	items, err := a.timeline.DayTimeline(date, a.loc)
	if err != nil {
		return err
	}
	for _, item := range items {
		switch v := item.(type) {
		case timeline.Entry:
			name := fmt.Sprintf("activity %d", v.Entry.ActivityID)
			if activity, err := a.activities.GetByID(v.Entry.ActivityID); err == nil {
				name = activity.Name
			}
			fmt.Printf("  %s - %s  %s\n",
				v.Entry.StartTime.In(a.loc).Format("15:04"),
				v.Entry.EndTime.In(a.loc).Format("15:04"),
				name,
			)
		case timeline.Gap:
			fmt.Printf("  %s - %s  (untracked)\n",
				v.Start.In(a.loc).Format("15:04"),
				v.End.In(a.loc).Format("15:04"),
			)
		}
	}
	return nil
}

func runGoalAdd(cmd *cobra.Command, args []string) error {
	a, err := openApp(configPath)
	if err != nil {
		return err
	}
	defer a.Close()

	tagIDs, err := a.tagIDsByName([]string{args[0]})
	if err != nil {
		return err
	}

	target, _ := cmd.Flags().GetInt64("target")
	goalType, _ := cmd.Flags().GetString("type")
	period, _ := cmd.Flags().GetString("period")

	req := &models.CreateGoalRequest{
		TagID:         tagIDs[0],
		TargetMinutes: target,
		Type:          models.GoalType(goalType),
		Period:        models.GoalPeriod(period),
	}
	if raw, _ := cmd.Flags().GetString("start"); raw != "" {
		start, err := parseDate(raw, a.loc)
		if err != nil {
			return err
		}
		req.StartDate = &start
	}
	if raw, _ := cmd.Flags().GetString("end"); raw != "" {
		end, err := parseDate(raw, a.loc)
		if err != nil {
			return err
		}
		req.EndDate = &end
	}

	created, err := a.goals.CreateGoal(req)
	if err != nil {
		return err
	}
	fmt.Printf("Goal %d created: %d min %s per %s on tag %q\n",
		created.ID, created.TargetMinutes, created.Type, created.Period, args[0])
	return nil
}

func runGoalList(cmd *cobra.Command, args []string) error {
	a, err := openApp(configPath)
	if err != nil {
		return err
	}
	defer a.Close()

	all, _ := cmd.Flags().GetBool("all")
	goals, err := a.goals.ListGoals(!all)
	if err != nil {
		return err
	}

	now := time.Now()
	for _, g := range goals {
		state := "active"
		if !g.IsActive {
			state = "archived"
		}
		line := fmt.Sprintf("  [%d] tag %d: %d min %s per %s (%s)",
			g.ID, g.TagID, g.TargetMinutes, g.Type, g.Period, state)
		if g.IsActive {
			if p, err := a.goals.ProgressFor(*g, now, a.loc); err == nil {
				done := ""
				if p.Completed {
					done = " done"
				}
				line += fmt.Sprintf(" — %d/%d min, %d%%%s",
					p.CurrentMinutes, p.TargetMinutes, p.Percentage, done)
			}
		}
		fmt.Println(line)
	}
	return nil
}

func runGoalArchive(cmd *cobra.Command, args []string) error {
	a, err := openApp(configPath)
	if err != nil {
		return err
	}
	defer a.Close()

	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid goal id %q", args[0])
	}
	if err := a.goals.Archive(id); err != nil {
		return err
	}
	fmt.Printf("Goal %d archived\n", id)
	return nil
}

func runGoalActivate(cmd *cobra.Command, args []string) error {
	a, err := openApp(configPath)
	if err != nil {
		return err
	}
	defer a.Close()

	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid goal id %q", args[0])
	}
	if err := a.goals.Activate(id); err != nil {
		return err
	}
	fmt.Printf("Goal %d activated\n", id)
	return nil
}

func runEntrySplit(cmd *cobra.Command, args []string) error {
	a, err := openApp(configPath)
	if err != nil {
		return err
	}
	defer a.Close()

	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid entry id %q", args[0])
	}
	at, err := parseInstant(args[1], a.loc)
	if err != nil {
		return err
	}

	halves, err := a.entries.Split(id, at)
	if err != nil {
		return err
	}
	fmt.Printf("Entry %d split into %d and %d\n", id, halves[0].ID, halves[1].ID)
	return nil
}

func runEntryMerge(cmd *cobra.Command, args []string) error {
	a, err := openApp(configPath)
	if err != nil {
		return err
	}
	defer a.Close()

	ids := make([]int64, len(args))
	for i, arg := range args {
		id, err := strconv.ParseInt(arg, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid entry id %q", arg)
		}
		ids[i] = id
	}

	merged, err := a.entries.Merge(ids)
	if err != nil {
		return err
	}
	fmt.Printf("Merged into entry %d: %s - %s\n",
		merged.ID,
		merged.StartTime.In(a.loc).Format("2006-01-02 15:04"),
		merged.EndTime.In(a.loc).Format("15:04"),
	)
	return nil
}

func runActivityAdd(cmd *cobra.Command, args []string) error {
	a, err := openApp(configPath)
	if err != nil {
		return err
	}
	defer a.Close()

	color, _ := cmd.Flags().GetString("color")
	activity, err := a.activities.Create(args[0], color)
	if err != nil {
		return err
	}
	fmt.Printf("Activity %d created: %s\n", activity.ID, activity.Name)
	return nil
}

func runActivityList(cmd *cobra.Command, args []string) error {
	a, err := openApp(configPath)
	if err != nil {
		return err
	}
	defer a.Close()

	activities, err := a.activities.List()
	if err != nil {
		return err
	}
	for _, activity := range activities {
		fmt.Printf("  [%d] %s (%s)\n", activity.ID, activity.Name, activity.ColorHex)
	}
	return nil
}

func parseDate(raw string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation("2006-01-02", raw, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, want YYYY-MM-DD", raw)
	}
	return t, nil
}

func parseInstant(raw string, loc *time.Location) (time.Time, error) {
	for _, layout := range []string{"2006-01-02 15:04:05", "2006-01-02 15:04", time.RFC3339} {
		if t, err := time.ParseInLocation(layout, raw, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid time %q", raw)
}

func parseWindow(from, to string, loc *time.Location) (interval.TimeRange, error) {
	fromDate := time.Now()
	if from != "" {
		var err error
		fromDate, err = parseDate(from, loc)
		if err != nil {
			return interval.TimeRange{}, err
		}
	}
	toDate := fromDate
	if to != "" {
		var err error
		toDate, err = parseDate(to, loc)
		if err != nil {
			return interval.TimeRange{}, err
		}
	}
	return interval.TimeRange{
		Start: interval.DayWindow(fromDate, loc).Start,
		End:   interval.DayWindow(toDate, loc).End,
	}, nil
}

func formatMillis(millis int64) string {
	d := time.Duration(millis) * time.Millisecond
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%02d:%02d", m, s)
}
