package intel

// 中文说明：
// 三张离线统计表（bidders/domains/archetypes）以 CSV 形式存放在数据目录，
// 启动时一次性载入并建索引。表在运行期只读，整体换入见 service.go。

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"bidsmith/internal/types"
)

const (
	biddersFile    = "bidders.csv"
	domainsFile    = "domains.csv"
	archetypesFile = "archetypes.csv"
)

// BidderProfile 离线对手画像行。
type BidderProfile struct {
	BidderID        string
	TotalAuctions   int
	TotalBids       int
	AvgBidIncrease  float64
	MaxBid          float64
	WinRate         float64
	LateBidRatio    float64
	AvgReactionTime float64
	ProxyUsage      float64
}

// Aggression 把 avg_bid_increase 映射到 0-10 的攻击性评分（0-100 → 0-10）。
func (p BidderProfile) Aggression() float64 {
	a := p.AvgBidIncrease / 10
	if a < 0 {
		return 0
	}
	if a > 10 {
		return 10
	}
	return a
}

// DomainStat 离线域名成交统计行。
type DomainStat struct {
	Domain        string
	AvgFinalPrice float64
	Volatility    float64
	P25           float64
	P50           float64
	P75           float64
	P90           float64
	SampleSize    int
}

// ArchetypeStat 平台级竞拍宏观统计行。
type ArchetypeStat struct {
	Platform        types.Platform
	AvgLateBidRatio float64
	AvgBidJump      float64
	AvgDurationSec  float64
}

// Tables 建好索引的只读表集合。
type Tables struct {
	Bidders    []BidderProfile
	Domains    []DomainStat
	Archetypes []ArchetypeStat

	bidderIndex map[string]*BidderProfile
	domainIndex map[string]*DomainStat
}

// LoadTables 从数据目录载入三张表。缺某张表不算错误（对应查询回退为未命中）。
func LoadTables(dir string) (*Tables, error) {
	t := &Tables{
		bidderIndex: make(map[string]*BidderProfile),
		domainIndex: make(map[string]*DomainStat),
	}
	if err := t.loadBidders(filepath.Join(dir, biddersFile)); err != nil {
		return nil, err
	}
	if err := t.loadDomains(filepath.Join(dir, domainsFile)); err != nil {
		return nil, err
	}
	if err := t.loadArchetypes(filepath.Join(dir, archetypesFile)); err != nil {
		return nil, err
	}
	t.buildIndexes()
	return t, nil
}

func (t *Tables) buildIndexes() {
	for i := range t.Bidders {
		t.bidderIndex[t.Bidders[i].BidderID] = &t.Bidders[i]
	}
	for i := range t.Domains {
		t.domainIndex[strings.ToLower(t.Domains[i].Domain)] = &t.Domains[i]
	}
}

func (t *Tables) loadBidders(path string) error {
	rows, err := readCSV(path)
	if err != nil || rows == nil {
		return err
	}
	for i, row := range rows {
		p := BidderProfile{
			BidderID:        row.str("bidder_id"),
			TotalAuctions:   row.intval("total_auctions"),
			TotalBids:       row.intval("total_bids"),
			AvgBidIncrease:  row.float("avg_bid_increase"),
			MaxBid:          row.float("max_bid"),
			WinRate:         row.float("win_rate"),
			LateBidRatio:    row.float("late_bid_ratio"),
			AvgReactionTime: row.float("avg_reaction_time_s"),
			ProxyUsage:      row.float("proxy_usage"),
		}
		if p.BidderID == "" {
			return fmt.Errorf("%s: 第 %d 行缺少 bidder_id", path, i+2)
		}
		t.Bidders = append(t.Bidders, p)
	}
	return nil
}

func (t *Tables) loadDomains(path string) error {
	rows, err := readCSV(path)
	if err != nil || rows == nil {
		return err
	}
	for i, row := range rows {
		d := DomainStat{
			Domain:        row.str("domain"),
			AvgFinalPrice: row.float("avg_final_price"),
			Volatility:    row.float("volatility"),
			P25:           row.float("p25"),
			P50:           row.float("p50"),
			P75:           row.float("p75"),
			P90:           row.float("p90"),
			SampleSize:    row.intval("sample_size"),
		}
		if d.Domain == "" {
			return fmt.Errorf("%s: 第 %d 行缺少 domain", path, i+2)
		}
		t.Domains = append(t.Domains, d)
	}
	return nil
}

func (t *Tables) loadArchetypes(path string) error {
	rows, err := readCSV(path)
	if err != nil || rows == nil {
		return err
	}
	for _, row := range rows {
		platform, _ := types.ParsePlatform(row.str("platform"))
		t.Archetypes = append(t.Archetypes, ArchetypeStat{
			Platform:        platform,
			AvgLateBidRatio: row.float("avg_late_bid_ratio"),
			AvgBidJump:      row.float("avg_bid_jump"),
			AvgDurationSec:  row.float("avg_duration_s"),
		})
	}
	return nil
}

// csvRow 表头到值的松散映射，缺列取零值。
type csvRow map[string]string

func (r csvRow) str(key string) string { return strings.TrimSpace(r[key]) }

func (r csvRow) float(key string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(r[key]), 64)
	if err != nil {
		return 0
	}
	return v
}

func (r csvRow) intval(key string) int {
	v, err := strconv.Atoi(strings.TrimSpace(r[key]))
	if err != nil {
		return int(r.float(key))
	}
	return v
}

// readCSV 读取带表头的 CSV；文件不存在时返回 (nil, nil)。
func readCSV(path string) ([]csvRow, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.TrimLeadingSpace = true
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("解析 %s 失败: %w", path, err)
	}
	if len(records) < 2 {
		return nil, nil
	}
	header := records[0]
	for i := range header {
		header[i] = strings.ToLower(strings.TrimSpace(header[i]))
	}
	rows := make([]csvRow, 0, len(records)-1)
	for _, rec := range records[1:] {
		row := make(csvRow, len(header))
		for i, cell := range rec {
			if i < len(header) {
				row[header[i]] = cell
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// percentile 线性插值分位数，vals 需已升序。
func percentile(vals []float64, q float64) float64 {
	if len(vals) == 0 {
		return 0
	}
	if len(vals) == 1 {
		return vals[0]
	}
	pos := q * float64(len(vals)-1)
	lo := int(pos)
	hi := lo + 1
	if hi >= len(vals) {
		return vals[len(vals)-1]
	}
	frac := pos - float64(lo)
	return vals[lo] + (vals[hi]-vals[lo])*frac
}

func sortedCopy(vals []float64) []float64 {
	out := append([]float64(nil), vals...)
	sort.Float64s(out)
	return out
}
