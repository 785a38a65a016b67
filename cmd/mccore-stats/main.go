package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"time"

	"mccore/stats"
)

func main() {
	watch := flag.Bool("watch", false, "continuously display stats")
	interval := flag.Int("interval", 1, "refresh interval in seconds for watch mode")
	jsonOutput := flag.Bool("json", false, "print as JSON")
	flag.Parse()

	if *watch {
		watchStats(*interval, *jsonOutput)
		return
	}
	printStats(*jsonOutput)
}

func printStats(asJSON bool) {
	snapshot := stats.Global().GetSnapshot()

	if asJSON {
		data, _ := json.MarshalIndent(snapshot, "", "  ")
		fmt.Println(string(data))
		return
	}

	fmt.Println("mccore stats")
	fmt.Printf("  connections   total=%d active=%d failed=%d\n",
		snapshot.TotalConnections, snapshot.ActiveConnections, snapshot.FailedConnections)
	fmt.Printf("  traffic       sent=%s received=%s packets_tx=%d packets_rx=%d\n",
		formatBytes(snapshot.BytesSent), formatBytes(snapshot.BytesReceived),
		snapshot.PacketsSent, snapshot.PacketsReceived)
	fmt.Printf("  errors        total=%d connection=%d packet=%d crypto=%d\n",
		snapshot.TotalErrors, snapshot.ConnectionErrors, snapshot.PacketErrors, snapshot.CryptoErrors)
	fmt.Printf("  uptime        %s (last activity %s)\n",
		formatDuration(snapshot.Uptime), snapshot.LastActivity.Format("15:04:05"))

	if len(snapshot.PacketTypes) > 0 {
		fmt.Println("  packet types:")
		for kind, count := range snapshot.PacketTypes {
			fmt.Printf("    %-20s %d\n", kind, count)
		}
	}
}

func watchStats(interval int, asJSON bool) {
	ticker := time.NewTicker(time.Duration(interval) * time.Second)
	defer ticker.Stop()

	for {
		if !asJSON {
			fmt.Print("\033[H\033[2J")
		}
		printStats(asJSON)
		<-ticker.C
	}
}

func formatBytes(n uint64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := uint64(unit), 0
	for v := n / unit; v >= unit; v /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(n)/float64(div), "KMGTPE"[exp])
}

func formatDuration(d time.Duration) string {
	switch {
	case d < time.Minute:
		return fmt.Sprintf("%.0fs", d.Seconds())
	case d < time.Hour:
		return fmt.Sprintf("%.0fm", d.Minutes())
	case d < 24*time.Hour:
		return fmt.Sprintf("%.1fh", d.Hours())
	default:
		return fmt.Sprintf("%.1fd", d.Hours()/24)
	}
}
