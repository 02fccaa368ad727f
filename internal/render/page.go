// Scopeplot - Real-time HTTP Data Oscilloscope
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/scopeplot

package render

import (
	"fmt"
	"io"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// ChartID is the DOM id of the chart container; the live script looks the
// chart up by it.
const ChartID = "scope"

// PageOptions tunes the rendered page.
type PageOptions struct {
	// AssetsHost overrides where echarts.min.js is loaded from. Empty uses
	// the go-echarts default CDN.
	AssetsHost string
	// WSPath is the WebSocket path relative to the page host.
	WSPath string
	// SnapshotPath is fetched when the browser detects a gap in the stream.
	SnapshotPath string
}

// DefaultPageOptions returns the paths served by the plot router.
func DefaultPageOptions() PageOptions {
	return PageOptions{WSPath: "/ws", SnapshotPath: "/api/snapshot"}
}

// Page writes the chart page, seeded with the current buffer contents.
func (r *Renderer) Page(w io.Writer, po PageOptions) error {
	if po.WSPath == "" {
		po.WSPath = "/ws"
	}
	if po.SnapshotPath == "" {
		po.SnapshotPath = "/api/snapshot"
	}

	snap := r.SnapshotFrame()

	data := make([]opts.LineData, len(snap.Points))
	for i, p := range snap.Points {
		data[i] = opts.LineData{Value: []interface{}{p[0], p[1]}}
	}

	title := r.title
	if title == "" {
		title = "Scopeplot"
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle:  title,
			Theme:      "dark",
			Width:      "100%",
			Height:     "95vh",
			ChartID:    ChartID,
			AssetsHost: po.AssetsHost,
		}),
		charts.WithTitleOpts(opts.Title{Title: title, Subtitle: subtitle(snap.Stats)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithXAxisOpts(opts.XAxis{Type: "value", Name: "x", Scale: opts.Bool(true)}),
		charts.WithYAxisOpts(opts.YAxis{Type: "value", Name: "y", Scale: opts.Bool(true)}),
	)
	line.AddSeries("data", data,
		charts.WithLineStyleOpts(opts.LineStyle{Color: "red", Width: 2}),
		charts.WithLineChartOpts(opts.LineChart{ShowSymbol: opts.Bool(false)}),
	)
	line.AddJSFuncs(liveScript(po, snap.Seq))

	if err := line.Render(w); err != nil {
		return fmt.Errorf("render chart page: %w", err)
	}
	return nil
}

func subtitle(s Stats) string {
	if s.Count == 0 {
		return "waiting for data"
	}
	return fmt.Sprintf("n=%d min=%.3g max=%.3g mean=%.3g sd=%.3g",
		s.Count, s.Min, s.Max, s.Mean, s.StdDev)
}

// liveScript follows the WebSocket and applies frames to the chart. The
// series is replaced on snapshot frames and extended (then trimmed to
// capacity) on append frames; points at or below lastSeq are skipped.
func liveScript(po PageOptions, seq uint64) string {
	return `(function () {
  var chart = echarts.getInstanceByDom(document.getElementById(` + strconv.Quote(ChartID) + `));
  if (!chart) { return; }
  chart.setOption({ animation: false });
  window.addEventListener("resize", function () { chart.resize(); });

  var wsPath = ` + strconv.Quote(po.WSPath) + `;
  var snapshotPath = ` + strconv.Quote(po.SnapshotPath) + `;
  var lastSeq = ` + strconv.FormatUint(seq, 10) + `;
  var data = (chart.getOption().series[0].data || []).map(function (d) {
    return Array.isArray(d) ? d : d.value;
  });
  var retry = 500;

  function subtitle(s) {
    if (!s || !s.count) { return "waiting for data"; }
    function f(v) { return Number(v).toPrecision(3); }
    return "n=" + s.count + " min=" + f(s.min) + " max=" + f(s.max) +
      " mean=" + f(s.mean) + " sd=" + f(s.stddev);
  }

  function apply(frame) {
    if (frame.kind === "snapshot") {
      data = frame.points.slice();
      lastSeq = frame.seq;
    } else {
      if (frame.seq <= lastSeq) { return; }
      if (frame.first_seq > lastSeq + 1) { resync(); return; }
      data = data.concat(frame.points.slice(lastSeq + 1 - frame.first_seq));
      lastSeq = frame.seq;
    }
    if (data.length > frame.capacity) {
      data = data.slice(data.length - frame.capacity);
    }
    chart.setOption({
      title: { subtext: subtitle(frame.stats) },
      series: [{ data: data }]
    });
  }

  function resync() {
    fetch(snapshotPath).then(function (r) { return r.json(); }).then(apply);
  }

  function connect() {
    var proto = location.protocol === "https:" ? "wss://" : "ws://";
    var ws = new WebSocket(proto + location.host + wsPath);
    var ping = null;
    ws.onopen = function () {
      retry = 500;
      ping = setInterval(function () {
        ws.send(JSON.stringify({ type: "ping", data: null }));
      }, 25000);
    };
    ws.onmessage = function (ev) {
      var msg = JSON.parse(ev.data);
      if (msg.type === "frame") { apply(msg.data); }
    };
    ws.onclose = function () {
      if (ping) { clearInterval(ping); }
      setTimeout(connect, retry);
      retry = Math.min(retry * 2, 10000);
    };
  }

  connect();
})();`
}
