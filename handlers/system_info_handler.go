package handlers

import (
	"fmt"
	"runtime"
	"time"

	"automod-bot/bot"

	"github.com/bwmarrin/discordgo"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/mem"
)

// AutomodStatusHandler reports engine counters alongside host health.
func AutomodStatusHandler(s *discordgo.Session, i *discordgo.InteractionCreate, b *bot.Bot) {
	stats := b.Engine.Snapshot()

	cpuPercent, _ := cpu.Percent(0, false)
	vm, _ := mem.VirtualMemory()
	hostInfo, _ := host.Info()

	cpuUsage := "n/a"
	if len(cpuPercent) > 0 {
		cpuUsage = fmt.Sprintf("%.1f%%", cpuPercent[0])
	}
	memUsage := "n/a"
	if vm != nil {
		memUsage = fmt.Sprintf("%.1f%% (%d MB / %d MB)", vm.UsedPercent, vm.Used/1024/1024, vm.Total/1024/1024)
	}
	platform := "n/a"
	if hostInfo != nil {
		platform = fmt.Sprintf("%s %s", hostInfo.Platform, hostInfo.PlatformVersion)
	}

	embed := &discordgo.MessageEmbed{
		Title: "Automod status",
		Color: 0x5865F2,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Messages evaluated", Value: fmt.Sprintf("%d", stats.MessagesEvaluated), Inline: true},
			{Name: "Messages flagged", Value: fmt.Sprintf("%d", stats.MessagesFlagged), Inline: true},
			{Name: "Actions executed", Value: fmt.Sprintf("%d", stats.ActionsExecuted), Inline: true},
			{Name: "Raid alerts", Value: fmt.Sprintf("%d", stats.RaidAlerts), Inline: true},
			{Name: "Nuke responses", Value: fmt.Sprintf("%d", stats.NukeResponses), Inline: true},
			{Name: "Tracked users", Value: fmt.Sprintf("%d", stats.TrackedUsers), Inline: true},
			{Name: "OS", Value: platform, Inline: true},
			{Name: "Go version", Value: runtime.Version(), Inline: true},
			{Name: "CPU usage", Value: cpuUsage, Inline: true},
			{Name: "Memory", Value: memUsage, Inline: true},
			{Name: "WebSocket latency", Value: s.HeartbeatLatency().String(), Inline: true},
			{Name: "Goroutines", Value: fmt.Sprintf("%d", runtime.NumGoroutine()), Inline: true},
		},
		Footer: &discordgo.MessageEmbedFooter{
			Text: fmt.Sprintf("Engine status - %s", time.Now().Format("15:04")),
		},
	}

	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds: []*discordgo.MessageEmbed{embed},
			Flags:  discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		logger.WithError(err).Error("Failed responding to status command")
	}
}
