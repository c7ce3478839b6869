package main

const configTemplate = `# Match Configuration
# ===================
# This file defines how a match is split up and how players are picked.

# The match is played in two equal halves. Each half is split into equal
# periods; lineups only change at period boundaries (and at mid-period
# rebalance points, see below).
match:
  total_minutes: 60
  period_minutes: 15

# Formation lists the field slots, filled in this order of importance:
# DC, ST, CDM, CAM, DL/DR, LW/RW. The goalkeeper is not listed here.
# Omit the whole section to use this default 11-a-side shape.
formation:
  - {key: DC1, position: DC}
  - {key: DC2, position: DC}
  - {key: DL, position: DL}
  - {key: DR, position: DR}
  - {key: CDM1, position: CDM}
  - {key: CDM2, position: CDM}
  - {key: CAM, position: CAM}
  - {key: LW, position: LW}
  - {key: ST, position: ST}
  - {key: RW, position: RW}

# Players with fewer minutes than this get the strongest weighting (x4)
# when slots are filled, ahead of players merely below target (x2). It
# raises their chances; it does not promise the minutes.
minimum_minutes: 15

# A schedule is "fair" when the gap between the most and least played
# players is at most this many minutes.
fairness_threshold_minutes: 15

# Who plays each period is decided by minutes owed. Strategy decides where
# they play:
#   skill_first        each slot, most important first, takes the best
#                      weighted fitness left
#   preference_first   players go to slots they list first, then by fitness
#   balanced_rotation  players pick in order of minutes owed, each taking
#                      the open slot they are fittest for
strategy: skill_first

keepers:
  # With two or more keepers, the second half gets a different keeper.
  rotate: true

# Rebalancing swaps players mid-period when someone falls behind their
# target minutes.
rebalance:
  enabled: true
  threshold_minutes: 0    # 0 means half a period
  max_per_moment: 4       # Max swaps at one moment
`

const rosterTemplate = `# Team Roster
# ===========
# Skills are rated 1-10; unrated skills count as 1.
# Positions are in order of preference. Known positions:
#   GK, DC, DL, DR, CDM, CAM, LW, ST, RW
# Mark a player absent to leave them out of the next plan.
# Optional per player:
#   target_minutes  minutes to aim for instead of an even share
#   rank            lower goes first when players are otherwise tied
players:
  - name: Sam
    keeper: true
    positions: [GK]
    skills: {defense: 6, concentration: 8, insight: 7, speed: 5}
  - name: Robin
    keeper: true
    positions: [GK, DC]
    skills: {defense: 7, concentration: 6, insight: 6, fierceness: 7}
  - name: Alex
    positions: [DC]
    skills: {defense: 8, fierceness: 7, concentration: 6, passing: 5}
  - name: Jordan
    positions: [DC, CDM]
    skills: {defense: 7, midfield: 6, passing: 6, insight: 6}
  - name: Casey
    positions: [DL]
    skills: {defense: 6, speed: 7, passing: 5}
  - name: Morgan
    positions: [DR]
    skills: {defense: 6, speed: 6, fierceness: 6}
  - name: Taylor
    positions: [CDM]
    skills: {midfield: 7, passing: 7, vision: 6, defense: 5}
  - name: Riley
    positions: [CDM, CAM]
    skills: {midfield: 6, passing: 6, ball_control: 6}
  - name: Jamie
    positions: [CAM]
    skills: {midfield: 7, vision: 8, passing: 7, ball_control: 7}
  - name: Avery
    positions: [LW]
    skills: {attacking: 6, speed: 8, ball_control: 6}
  - name: Quinn
    positions: [ST]
    skills: {attacking: 8, shooting: 8, speed: 6}
  - name: Drew
    positions: [RW]
    skills: {attacking: 6, speed: 7, ball_control: 6}
  - name: Charlie
    positions: [ST, LW]
    skills: {attacking: 6, shooting: 6}
  - name: Skyler
    positions: [DL, DR]
    skills: {defense: 5, speed: 6}
    target_minutes: 30
`
