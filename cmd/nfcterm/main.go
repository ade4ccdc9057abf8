package main

// 刷卡终端模拟器：从标准输入读卡号，先过本地冷却，再提交给打卡服务
// 独立于服务端配置运行，只需要知道 /scan 的地址

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"TapTrack/internal/cache"
)

const (
	defaultAPIURL   = "http://localhost:5000/scan"
	defaultCooldown = 120 * time.Second
)

type scanResult struct {
	OK           bool    `json:"ok"`
	EmployeeID   int64   `json:"employee_id"`
	OwnerName    string  `json:"owner_name"`
	ClockInTime  *string `json:"clockin_time"`
	ClockOutTime *string `json:"clockout_time"`
	Date         string  `json:"date"`
	Action       string  `json:"action"`
}

type scanError struct {
	Error string `json:"error"`
	Code  int    `json:"code"`
}

func main() {
	apiURL := os.Getenv("SCAN_API_URL")
	if apiURL == "" {
		apiURL = defaultAPIURL
	}

	cooldown := defaultCooldown
	if raw := os.Getenv("SCAN_COOLDOWN_SECONDS"); raw != "" {
		secs, err := strconv.Atoi(raw)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Invalid SCAN_COOLDOWN_SECONDS %q: %v\n", raw, err)
			os.Exit(1)
		}
		cooldown = time.Duration(secs) * time.Second
	}

	debouncer := cache.NewMemoryDebouncer(cooldown)
	client := &http.Client{Timeout: 10 * time.Second}

	fmt.Println("NFC scan terminal ready")
	fmt.Printf("Posting scans to %s\n", apiURL)
	fmt.Print("Tap a card (enter UID): ")

	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		tagUID := strings.TrimSpace(scanner.Text())
		if tagUID != "" {
			handleTap(client, debouncer, apiURL, tagUID)
		}
		fmt.Print("Tap a card (enter UID): ")
	}

	if err := scanner.Err(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to read input: %v\n", err)
		os.Exit(1)
	}

	fmt.Println()
	fmt.Println("Terminal closed")
}

func handleTap(client *http.Client, debouncer *cache.MemoryDebouncer, apiURL, tagUID string) {
	// 本地冷却先挡一轮，避免把按住不放的卡刷成请求风暴
	accepted, remaining := debouncer.AcceptWithRemaining(tagUID)
	if !accepted {
		fmt.Printf("Card %s is cooling down, wait %ds before scanning again\n",
			tagUID, int(remaining.Round(time.Second).Seconds()))
		return
	}

	body, err := json.Marshal(map[string]string{"tag_uid": tagUID})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to encode scan request: %v\n", err)
		return
	}

	resp, err := client.Post(apiURL, "application/json", bytes.NewReader(body))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Scan request failed: %v\n", err)
		return
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to read scan response: %v\n", err)
		return
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr scanError
		if err := json.Unmarshal(payload, &apiErr); err == nil && apiErr.Error != "" {
			fmt.Printf("Scan rejected (%d): %s\n", resp.StatusCode, apiErr.Error)
		} else {
			fmt.Printf("Scan rejected (%d): %s\n", resp.StatusCode, strings.TrimSpace(string(payload)))
		}
		return
	}

	var result scanResult
	if err := json.Unmarshal(payload, &result); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to decode scan response: %v\n", err)
		return
	}

	fmt.Printf("%s (employee %d) %s on %s\n",
		result.OwnerName, result.EmployeeID, result.Action, result.Date)
	if result.ClockInTime != nil {
		fmt.Printf("  clock in:  %s\n", *result.ClockInTime)
	}
	if result.ClockOutTime != nil {
		fmt.Printf("  clock out: %s\n", *result.ClockOutTime)
	}
}
