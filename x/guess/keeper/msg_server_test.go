package keeper_test

import (
	"testing"

	sdkmath "cosmossdk.io/math"

	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/stretchr/testify/require"

	"onchainguess/x/guess/types"
)

func TestStartGame_OnlyOwner(t *testing.T) {
	f := newFixture(t)
	stranger := addr(0x09)

	_, err := f.ms.StartGame(f.ctx(), &types.MsgStartGame{
		Owner:            stranger.String(),
		SecretCommitment: types.Commitment("42", "salt"),
		RevealWindow:     100,
	})
	require.ErrorIs(t, err, types.ErrUnauthorized)

	game, err := f.k.GetGame(f.ctx())
	require.NoError(t, err)
	require.False(t, game.Active)
	require.Zero(t, game.Round)
}

func TestStartGame_SetsDeadlineAndRound(t *testing.T) {
	f := newFixture(t)

	resp := f.start(t, "42", "salt", 100)
	require.Equal(t, uint64(1), resp.Round)
	require.Equal(t, startUnix+100, resp.RevealDeadline)

	active, err := f.k.IsActive(f.ctx())
	require.NoError(t, err)
	require.True(t, active)

	deadline, err := f.k.Deadline(f.ctx())
	require.NoError(t, err)
	require.Equal(t, startUnix+100, deadline)

	evs := f.sdkCtx.EventManager().Events()
	require.NotEmpty(t, evs)
	require.Equal(t, types.EventTypeGameStarted, evs[len(evs)-1].Type)
}

func TestStartGame_RejectsWhileActive(t *testing.T) {
	f := newFixture(t)
	f.start(t, "42", "salt", 100)

	_, err := f.ms.StartGame(f.ctx(), &types.MsgStartGame{
		Owner:            f.owner.String(),
		SecretCommitment: types.Commitment("7", "salt"),
		RevealWindow:     10,
	})
	require.ErrorIs(t, err, types.ErrInvalidState)

	game, err := f.k.GetGame(f.ctx())
	require.NoError(t, err)
	require.Equal(t, types.Commitment("42", "salt"), game.SecretCommitment)
}

func TestStartGame_NonPositiveWindowResolvableImmediately(t *testing.T) {
	f := newFixture(t)
	resp := f.start(t, "42", "salt", -5)
	require.Equal(t, startUnix-5, resp.RevealDeadline)

	res, err := f.ms.ResolveGame(f.ctx(), &types.MsgResolveGame{Owner: f.owner.String(), Secret: "42", Nonce: "salt"})
	require.NoError(t, err)
	require.True(t, res.Pool.IsZero())
}

func TestStartGame_WindowOverflowRejected(t *testing.T) {
	f := newFixture(t)
	_, err := f.ms.StartGame(f.ctx(), &types.MsgStartGame{
		Owner:            f.owner.String(),
		SecretCommitment: types.Commitment("42", "salt"),
		RevealWindow:     int64(^uint64(0) >> 1),
	})
	require.ErrorIs(t, err, types.ErrValidation)

	active, err := f.k.IsActive(f.ctx())
	require.NoError(t, err)
	require.False(t, active)
}

func TestStartGame_ClearsRegistryKeepsBalances(t *testing.T) {
	f := newFixture(t)
	alice := addr(0x0a)

	f.start(t, "42", "salt", 100)
	f.commit(t, alice, "42", "a1", 10)
	f.reveal(t, alice, "42", "a1")
	_, err := f.ms.ResolveGame(f.at(startUnix+100), &types.MsgResolveGame{Owner: f.owner.String(), Secret: "42", Nonce: "salt"})
	require.NoError(t, err)
	require.Equal(t, sdkmath.NewInt(10), f.balance(t, alice))

	resp := f.start(t, "9", "salt2", 50)
	require.Equal(t, uint64(2), resp.Round)

	_, ok, err := f.k.GetGuess(f.ctx(), alice)
	require.NoError(t, err)
	require.False(t, ok)
	require.Equal(t, sdkmath.NewInt(10), f.balance(t, alice))
}

func TestCommitGuess_NoActiveGame(t *testing.T) {
	f := newFixture(t)
	_, err := f.ms.CommitGuess(f.ctx(), &types.MsgCommitGuess{
		Player:          addr(0x0a).String(),
		GuessCommitment: types.Commitment("1", "n"),
		Stake:           sdkmath.NewInt(5),
	})
	require.ErrorIs(t, err, types.ErrInvalidState)
	require.Empty(t, f.bank.calls)
}

func TestCommitGuess_StakeBelowMinimum(t *testing.T) {
	f := newFixture(t)
	f.start(t, "42", "salt", 100)

	_, err := f.ms.SetMinStake(f.ctx(), &types.MsgSetMinStake{Owner: f.owner.String(), MinStake: sdkmath.NewInt(10)})
	require.NoError(t, err)

	alice := addr(0x0a)
	_, err = f.ms.CommitGuess(f.ctx(), &types.MsgCommitGuess{
		Player:          alice.String(),
		GuessCommitment: types.Commitment("42", "a1"),
		Stake:           sdkmath.NewInt(5),
	})
	require.ErrorIs(t, err, types.ErrValidation)
	require.ErrorContains(t, err, "stake too small")

	_, ok, err := f.k.GetGuess(f.ctx(), alice)
	require.NoError(t, err)
	require.False(t, ok)
	require.Empty(t, f.bank.calls)
}

func TestCommitGuess_EscrowsStake(t *testing.T) {
	f := newFixture(t)
	f.start(t, "42", "salt", 100)
	alice := addr(0x0a)

	f.commit(t, alice, "42", "a1", 7)

	require.Len(t, f.bank.calls, 1)
	c := f.bank.calls[0]
	require.Equal(t, "a2m", c.kind)
	require.Equal(t, alice, c.acc)
	require.Equal(t, types.ModuleName, c.module)
	require.Equal(t, coins(7), c.coins)

	rec, ok, err := f.k.GetGuess(f.ctx(), alice)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, types.Commitment("42", "a1"), rec.Commitment)
	require.False(t, rec.Revealed)
	require.Empty(t, rec.Guess)
}

func TestCommitGuess_ZeroStakeWithZeroMinimumSkipsEscrow(t *testing.T) {
	f := newFixture(t)
	f.start(t, "42", "salt", 100)
	_, err := f.ms.SetMinStake(f.ctx(), &types.MsgSetMinStake{Owner: f.owner.String(), MinStake: sdkmath.ZeroInt()})
	require.NoError(t, err)

	f.commit(t, addr(0x0a), "42", "a1", 0)
	require.Zero(t, f.bank.count("a2m"))
}

func TestCommitGuess_OverwriteResetsReveal(t *testing.T) {
	f := newFixture(t)
	f.start(t, "42", "salt", 100)
	alice := addr(0x0a)

	f.commit(t, alice, "42", "a1", 5)
	f.reveal(t, alice, "42", "a1")

	resp, err := f.ms.CommitGuess(f.ctx(), &types.MsgCommitGuess{
		Player:          alice.String(),
		GuessCommitment: types.Commitment("7", "a2"),
		Stake:           sdkmath.NewInt(3),
	})
	require.NoError(t, err)
	require.True(t, resp.ReplacedExisting)

	rec, ok, err := f.k.GetGuess(f.ctx(), alice)
	require.NoError(t, err)
	require.True(t, ok)
	require.False(t, rec.Revealed)
	require.Empty(t, rec.Guess)
	require.Equal(t, sdkmath.NewInt(3), rec.Stake)
	require.Equal(t, 2, f.bank.count("a2m"))

	// Only the latest stake counts towards the pool.
	pool, err := f.k.CurrentPool(f.ctx())
	require.NoError(t, err)
	require.Equal(t, sdkmath.NewInt(3), pool)
}

func TestCommitGuess_EscrowFailureLeavesNoRecord(t *testing.T) {
	f := newFixture(t)
	f.start(t, "42", "salt", 100)
	alice := addr(0x0a)

	f.bank.failNext = true
	_, err := f.ms.CommitGuess(f.ctx(), &types.MsgCommitGuess{
		Player:          alice.String(),
		GuessCommitment: types.Commitment("42", "a1"),
		Stake:           sdkmath.NewInt(5),
	})
	require.ErrorContains(t, err, "insufficient funds")

	_, ok, err := f.k.GetGuess(f.ctx(), alice)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestRevealGuess_Errors(t *testing.T) {
	f := newFixture(t)
	alice := addr(0x0a)
	bob := addr(0x0b)

	_, err := f.ms.RevealGuess(f.ctx(), &types.MsgRevealGuess{Player: alice.String(), Guess: "42", Nonce: "a1"})
	require.ErrorIs(t, err, types.ErrInvalidState)

	f.start(t, "42", "salt", 100)
	f.commit(t, alice, "42", "a1", 5)

	_, err = f.ms.RevealGuess(f.ctx(), &types.MsgRevealGuess{Player: bob.String(), Guess: "42", Nonce: "b1"})
	require.ErrorIs(t, err, types.ErrValidation)
	require.ErrorContains(t, err, "no guess committed")

	_, err = f.ms.RevealGuess(f.ctx(), &types.MsgRevealGuess{Player: alice.String(), Guess: "42", Nonce: "wrong"})
	require.ErrorIs(t, err, types.ErrValidation)
	require.ErrorContains(t, err, "commit mismatch")

	rec, _, err := f.k.GetGuess(f.ctx(), alice)
	require.NoError(t, err)
	require.False(t, rec.Revealed)

	f.reveal(t, alice, "42", "a1")
	_, err = f.ms.RevealGuess(f.ctx(), &types.MsgRevealGuess{Player: alice.String(), Guess: "42", Nonce: "a1"})
	require.ErrorIs(t, err, types.ErrValidation)
	require.ErrorContains(t, err, "already revealed")
}

func TestRevealGuess_RejectsNonUTF8Guess(t *testing.T) {
	f := newFixture(t)
	alice := addr(0x0a)
	f.start(t, "\xff7", "salt", 100)
	f.commit(t, alice, "\xff7", "a1", 5)

	err := f.k.RevealGuess(f.ctx(), alice, "\xff7", "a1")
	require.ErrorIs(t, err, types.ErrValidation)
	require.ErrorContains(t, err, "guess is not valid UTF-8")

	err = f.k.RevealGuess(f.ctx(), alice, "7", "a1\xff")
	require.ErrorIs(t, err, types.ErrValidation)
	require.ErrorContains(t, err, "nonce is not valid UTF-8")

	rec, _, err := f.k.GetGuess(f.ctx(), alice)
	require.NoError(t, err)
	require.False(t, rec.Revealed)

	// The owner can still close the round; nobody revealed, so nobody wins.
	res, err := f.k.ResolveGame(f.at(startUnix+100), f.owner, "\xff7", "salt")
	require.NoError(t, err)
	require.Empty(t, res.Winners)
	require.Equal(t, sdkmath.NewInt(5), res.Unclaimed)
}

func TestResolveGame_NonASCIIGuessWins(t *testing.T) {
	f := newFixture(t)
	alice := addr(0x0a)
	const secret = "zwölf 🎲"
	f.start(t, secret, "salt", 100)
	f.commit(t, alice, secret, "a1", 5)
	require.NoError(t, f.k.RevealGuess(f.ctx(), alice, secret, "a1"))

	rec, _, err := f.k.GetGuess(f.ctx(), alice)
	require.NoError(t, err)
	require.Equal(t, secret, rec.Guess)

	res, err := f.k.ResolveGame(f.at(startUnix+100), f.owner, secret, "salt")
	require.NoError(t, err)
	require.Equal(t, []sdk.AccAddress{alice}, res.Winners)
	require.Equal(t, sdkmath.NewInt(5), f.balance(t, alice))
}

func TestCommitmentFormat_CheckedAfterGuards(t *testing.T) {
	f := newFixture(t)
	alice := addr(0x0a)
	stranger := addr(0x09)

	_, err := f.ms.StartGame(f.ctx(), &types.MsgStartGame{Owner: stranger.String(), SecretCommitment: "not-a-hash", RevealWindow: 10})
	require.ErrorIs(t, err, types.ErrUnauthorized)

	_, err = f.ms.CommitGuess(f.ctx(), &types.MsgCommitGuess{Player: alice.String(), GuessCommitment: "not-a-hash", Stake: sdkmath.NewInt(5)})
	require.ErrorIs(t, err, types.ErrInvalidState)

	_, err = f.ms.StartGame(f.ctx(), &types.MsgStartGame{Owner: f.owner.String(), SecretCommitment: "not-a-hash", RevealWindow: 10})
	require.ErrorIs(t, err, types.ErrValidation)

	f.start(t, "42", "salt", 100)
	_, err = f.ms.CommitGuess(f.ctx(), &types.MsgCommitGuess{Player: alice.String(), GuessCommitment: "not-a-hash", Stake: sdkmath.NewInt(5)})
	require.ErrorIs(t, err, types.ErrValidation)
	require.ErrorContains(t, err, "64 hex chars")
	require.Zero(t, f.bank.count("a2m"))
}

func TestResolveGame_NoWinnersKeepsPoolInEscrow(t *testing.T) {
	f := newFixture(t)
	f.start(t, "42", "salt", 100)
	alice := addr(0x0a)
	f.commit(t, alice, "7", "a1", 5)
	f.reveal(t, alice, "7", "a1")

	res, err := f.ms.ResolveGame(f.at(startUnix+100), &types.MsgResolveGame{Owner: f.owner.String(), Secret: "42", Nonce: "salt"})
	require.NoError(t, err)
	require.Equal(t, sdkmath.NewInt(5), res.Pool)
	require.Empty(t, res.Winners)
	require.True(t, res.Reward.IsZero())
	require.Equal(t, sdkmath.NewInt(5), res.Unclaimed)

	require.True(t, f.balance(t, alice).IsZero())
	require.Zero(t, f.bank.count("m2a"))

	active, err := f.k.IsActive(f.ctx())
	require.NoError(t, err)
	require.False(t, active)
}

func TestResolveGame_SplitsPoolAmongWinners(t *testing.T) {
	f := newFixture(t)
	f.start(t, "42", "salt", 100)
	alice := addr(0x0a)
	bob := addr(0x0b)

	f.commit(t, alice, "42", "a1", 10)
	f.commit(t, bob, "42", "b1", 20)
	f.reveal(t, alice, "42", "a1")
	f.reveal(t, bob, "42", "b1")

	ctx := f.at(startUnix + 150)
	res, err := f.ms.ResolveGame(ctx, &types.MsgResolveGame{Owner: f.owner.String(), Secret: "42", Nonce: "salt"})
	require.NoError(t, err)
	require.Equal(t, sdkmath.NewInt(30), res.Pool)
	require.Equal(t, sdkmath.NewInt(15), res.Reward)
	require.True(t, res.Unclaimed.IsZero())
	require.ElementsMatch(t, []string{alice.String(), bob.String()}, res.Winners)

	evs := sdk.UnwrapSDKContext(ctx).EventManager().Events()
	var credited int
	for _, ev := range evs {
		if ev.Type == types.EventTypeRewardCredited {
			credited++
		}
	}
	require.Equal(t, 2, credited)

	require.Equal(t, sdkmath.NewInt(15), f.balance(t, alice))
	require.Equal(t, sdkmath.NewInt(15), f.balance(t, bob))

	out, err := f.ms.Withdraw(f.ctx(), &types.MsgWithdraw{Player: alice.String()})
	require.NoError(t, err)
	require.Equal(t, sdkmath.NewInt(15), out.Amount)
	require.True(t, f.balance(t, alice).IsZero())

	last := f.bank.calls[len(f.bank.calls)-1]
	require.Equal(t, "m2a", last.kind)
	require.Equal(t, alice, last.acc)
	require.Equal(t, coins(15), last.coins)

	_, err = f.ms.Withdraw(f.ctx(), &types.MsgWithdraw{Player: alice.String()})
	require.ErrorIs(t, err, types.ErrValidation)
	require.ErrorContains(t, err, "nothing to withdraw")
	require.Equal(t, 1, f.bank.count("m2a"))
}

func TestResolveGame_RemainderStaysUnclaimed(t *testing.T) {
	f := newFixture(t)
	f.start(t, "42", "salt", 0)
	players := []sdk.AccAddress{addr(0x0a), addr(0x0b), addr(0x0c)}
	stakes := []int64{3, 3, 4}
	for i, p := range players {
		f.commit(t, p, "42", "n", stakes[i])
		f.reveal(t, p, "42", "n")
	}

	res, err := f.ms.ResolveGame(f.ctx(), &types.MsgResolveGame{Owner: f.owner.String(), Secret: "42", Nonce: "salt"})
	require.NoError(t, err)
	require.Equal(t, sdkmath.NewInt(10), res.Pool)
	require.Equal(t, sdkmath.NewInt(3), res.Reward)
	require.Equal(t, sdkmath.NewInt(1), res.Unclaimed)

	total := sdkmath.ZeroInt()
	for _, p := range players {
		total = total.Add(f.balance(t, p))
	}
	require.Equal(t, res.Pool.Sub(res.Unclaimed), total)
}

func TestResolveGame_UnrevealedStakesJoinPool(t *testing.T) {
	f := newFixture(t)
	f.start(t, "42", "salt", 10)
	alice := addr(0x0a)
	bob := addr(0x0b)

	f.commit(t, alice, "42", "a1", 4)
	f.commit(t, bob, "42", "b1", 6)
	f.reveal(t, alice, "42", "a1")

	res, err := f.ms.ResolveGame(f.at(startUnix+10), &types.MsgResolveGame{Owner: f.owner.String(), Secret: "42", Nonce: "salt"})
	require.NoError(t, err)
	require.Equal(t, sdkmath.NewInt(10), res.Pool)
	require.Equal(t, []string{alice.String()}, res.Winners)
	require.Equal(t, sdkmath.NewInt(10), f.balance(t, alice))
	require.True(t, f.balance(t, bob).IsZero())
}

func TestResolveGame_Errors(t *testing.T) {
	f := newFixture(t)

	_, err := f.ms.ResolveGame(f.ctx(), &types.MsgResolveGame{Owner: f.owner.String(), Secret: "42", Nonce: "salt"})
	require.ErrorIs(t, err, types.ErrInvalidState)

	f.start(t, "42", "salt", 100)

	_, err = f.ms.ResolveGame(f.at(startUnix+100), &types.MsgResolveGame{Owner: addr(0x09).String(), Secret: "42", Nonce: "salt"})
	require.ErrorIs(t, err, types.ErrUnauthorized)

	_, err = f.ms.ResolveGame(f.at(startUnix+99), &types.MsgResolveGame{Owner: f.owner.String(), Secret: "42", Nonce: "salt"})
	require.ErrorIs(t, err, types.ErrValidation)
	require.ErrorContains(t, err, "reveal too early")

	_, err = f.ms.ResolveGame(f.at(startUnix+100), &types.MsgResolveGame{Owner: f.owner.String(), Secret: "41", Nonce: "salt"})
	require.ErrorIs(t, err, types.ErrValidation)
	require.ErrorContains(t, err, "invalid secret")

	active, err := f.k.IsActive(f.ctx())
	require.NoError(t, err)
	require.True(t, active)

	_, err = f.ms.ResolveGame(f.at(startUnix+100), &types.MsgResolveGame{Owner: f.owner.String(), Secret: "42", Nonce: "salt"})
	require.NoError(t, err)

	_, err = f.ms.ResolveGame(f.at(startUnix+100), &types.MsgResolveGame{Owner: f.owner.String(), Secret: "42", Nonce: "salt"})
	require.ErrorIs(t, err, types.ErrInvalidState)
}

func TestResolveGame_BalancesAccumulateAcrossRounds(t *testing.T) {
	f := newFixture(t)
	alice := addr(0x0a)

	for round := 0; round < 3; round++ {
		f.start(t, "42", "salt", 0)
		f.commit(t, alice, "42", "a1", 2)
		f.reveal(t, alice, "42", "a1")
		_, err := f.ms.ResolveGame(f.ctx(), &types.MsgResolveGame{Owner: f.owner.String(), Secret: "42", Nonce: "salt"})
		require.NoError(t, err)
	}
	require.Equal(t, sdkmath.NewInt(6), f.balance(t, alice))

	game, err := f.k.GetGame(f.ctx())
	require.NoError(t, err)
	require.Equal(t, uint64(3), game.Round)
}

func TestWithdraw_TransferFailureKeepsBalance(t *testing.T) {
	f := newFixture(t)
	alice := addr(0x0a)
	f.start(t, "42", "salt", 0)
	f.commit(t, alice, "42", "a1", 8)
	f.reveal(t, alice, "42", "a1")
	_, err := f.ms.ResolveGame(f.ctx(), &types.MsgResolveGame{Owner: f.owner.String(), Secret: "42", Nonce: "salt"})
	require.NoError(t, err)

	f.bank.failNext = true
	_, err = f.ms.Withdraw(f.ctx(), &types.MsgWithdraw{Player: alice.String()})
	require.Error(t, err)
	require.Equal(t, sdkmath.NewInt(8), f.balance(t, alice))

	out, err := f.ms.Withdraw(f.ctx(), &types.MsgWithdraw{Player: alice.String()})
	require.NoError(t, err)
	require.Equal(t, sdkmath.NewInt(8), out.Amount)
}

func TestWithdraw_WithoutBalance(t *testing.T) {
	f := newFixture(t)
	_, err := f.ms.Withdraw(f.ctx(), &types.MsgWithdraw{Player: addr(0x0a).String()})
	require.ErrorIs(t, err, types.ErrValidation)
	require.Empty(t, f.bank.calls)
}

func TestSetMinStake(t *testing.T) {
	f := newFixture(t)

	_, err := f.ms.SetMinStake(f.ctx(), &types.MsgSetMinStake{Owner: addr(0x09).String(), MinStake: sdkmath.NewInt(3)})
	require.ErrorIs(t, err, types.ErrUnauthorized)

	_, err = f.ms.SetMinStake(f.ctx(), &types.MsgSetMinStake{Owner: f.owner.String(), MinStake: sdkmath.NewInt(-1)})
	require.ErrorIs(t, err, types.ErrInvalidRequest)

	_, err = f.ms.SetMinStake(f.ctx(), &types.MsgSetMinStake{Owner: f.owner.String(), MinStake: sdkmath.NewInt(3)})
	require.NoError(t, err)

	p, err := f.k.GetParams(f.ctx())
	require.NoError(t, err)
	require.Equal(t, sdkmath.NewInt(3), p.MinStake)
	require.Equal(t, types.DefaultDenom, p.Denom)
}

func TestMsgServer_NilRequests(t *testing.T) {
	f := newFixture(t)

	_, err := f.ms.StartGame(f.ctx(), nil)
	require.ErrorIs(t, err, types.ErrInvalidRequest)
	_, err = f.ms.CommitGuess(f.ctx(), nil)
	require.ErrorIs(t, err, types.ErrInvalidRequest)
	_, err = f.ms.RevealGuess(f.ctx(), nil)
	require.ErrorIs(t, err, types.ErrInvalidRequest)
	_, err = f.ms.ResolveGame(f.ctx(), nil)
	require.ErrorIs(t, err, types.ErrInvalidRequest)
	_, err = f.ms.Withdraw(f.ctx(), nil)
	require.ErrorIs(t, err, types.ErrInvalidRequest)
	_, err = f.ms.SetMinStake(f.ctx(), nil)
	require.ErrorIs(t, err, types.ErrInvalidRequest)
}
