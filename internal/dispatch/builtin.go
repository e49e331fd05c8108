package dispatch

import (
	"context"
	"fmt"
	"runtime"
	"strings"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/mem"

	"igris/internal/intent"
)

// SystemStatusPlugin reports CPU, memory, disk, and uptime. The catalogue
// maps status phrases to plugin:system_status so the query resolves without
// a model round-trip.
type SystemStatusPlugin struct{}

// RunContext gathers a point-in-time host report.
func (SystemStatusPlugin) RunContext(ctx context.Context, args []string) (string, error) {
	var b strings.Builder

	if percents, err := cpu.PercentWithContext(ctx, 100*time.Millisecond, false); err == nil && len(percents) > 0 {
		fmt.Fprintf(&b, "CPU Load: %.1f%%\n", percents[0])
	}
	if vm, err := mem.VirtualMemoryWithContext(ctx); err == nil {
		fmt.Fprintf(&b, "Memory Usage: %.1f%% (%d MB / %d MB)\n",
			vm.UsedPercent, vm.Used/(1<<20), vm.Total/(1<<20))
	}
	if usage, err := disk.UsageWithContext(ctx, rootPath()); err == nil {
		fmt.Fprintf(&b, "Disk Usage (%s): %.1f%% (%d GB free / %d GB total)\n",
			rootPath(), usage.UsedPercent, usage.Free/(1<<30), usage.Total/(1<<30))
	}
	if uptime, err := host.UptimeWithContext(ctx); err == nil {
		fmt.Fprintf(&b, "Uptime: %s\n", (time.Duration(uptime) * time.Second).String())
	}

	if b.Len() == 0 {
		return "", fmt.Errorf("no system metrics available")
	}
	return strings.TrimSpace(b.String()), nil
}

func rootPath() string {
	if runtime.GOOS == "windows" {
		return `C:\`
	}
	return "/"
}

// ListTasksPlugin lists catalogue tasks, optionally filtered by tag
// (plugin:list_tasks <tag>).
type ListTasksPlugin struct {
	Store *intent.CatalogueStore
}

// RunArgs renders the catalogue listing.
func (p ListTasksPlugin) RunArgs(args []string) (string, error) {
	if p.Store == nil {
		return "", fmt.Errorf("no catalogue configured")
	}
	cat, err := p.Store.Load()
	if err != nil {
		return "", err
	}

	tag := ""
	if len(args) > 0 {
		tag = args[0]
	}

	var b strings.Builder
	for _, t := range cat.Tasks {
		if tag != "" && !t.HasTag(tag) {
			continue
		}
		admin := ""
		if t.RequiresAdmin {
			admin = " [admin]"
		}
		fmt.Fprintf(&b, "%s%s: %s\n", t.Task, admin, t.Action)
	}
	if b.Len() == 0 {
		if tag != "" {
			return fmt.Sprintf("No tasks tagged %q.", tag), nil
		}
		return "No tasks in catalogue.", nil
	}
	return strings.TrimSpace(b.String()), nil
}

// RegisterBuiltins installs the builtin plugins on a registry. The store may
// be nil; list_tasks then reports the missing catalogue at invocation time.
func RegisterBuiltins(r *Registry, store *intent.CatalogueStore) {
	r.MustRegister(&Plugin{
		Name:        "system_status",
		Description: "Report CPU, memory, disk, and uptime",
		Impl:        SystemStatusPlugin{},
	})
	r.MustRegister(&Plugin{
		Name:        "list_tasks",
		Description: "List catalogue tasks, optionally filtered by tag",
		Impl:        ListTasksPlugin{Store: store},
	})
}
